package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"niseko/shared/constant"
	"niseko/shared/failure"
	"niseko/shared/logger"

	"github.com/rs/zerolog/log"
)

const internalErrorMessage = "internal server error"

// Envelopes. Exactly one of data, message or error is present in a body.
type (
	Data[T any] struct {
		Data *T `json:"data,omitempty"`
	}

	Error struct {
		Error *string `json:"error,omitempty"`
	}

	Message struct {
		Message *string `json:"message,omitempty"`
	}
)

func WithJSON[T any](writer http.ResponseWriter, code int, payload T) {
	write(writer, code, Data[T]{Data: &payload})
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

// WithError answers with the status and message of a failure.Failure. Any other
// error is logged and reported as a bare 500 so driver details never reach guests.
func WithError(writer http.ResponseWriter, err error) {
	var fail *failure.Failure
	if errors.As(err, &fail) {
		write(writer, fail.Code, Error{Error: &fail.Message})

		return
	}

	log.Error().Err(err).Msg("unhandled error answered with 500")

	msg := internalErrorMessage
	write(writer, http.StatusInternalServerError, Error{Error: &msg})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		code = http.StatusInternalServerError
		body = []byte(`{"error":"` + internalErrorMessage + `"}`)
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
