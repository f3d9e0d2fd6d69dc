package service

import (
	"errors"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/apperr"
	"github.com/rs/zerolog/log"
)

// Clock 可替換的時間來源, 測試用
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// persistErr 已分類的錯誤原樣回傳, 其他一律視為持久層失敗
func persistErr(message string, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	log.Error().Err(err).Msg(message)
	return apperr.Wrap(apperr.PersistenceFailure, message, err)
}
