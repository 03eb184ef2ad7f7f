package browser

import (
	"errors"

	"github.com/HaiFongPan/xtal-cli/internal/api"
	"github.com/HaiFongPan/xtal-cli/internal/i18n"
)

var (
	// ErrAuthMissing means no credential was available; no request is made
	ErrAuthMissing = errors.New("authentication token is missing")
	// ErrEmptyResponse means a fetch succeeded without a usable payload
	ErrEmptyResponse = errors.New("response was empty")
	// ErrUnsupportedFileType means the entry matches no preview route
	ErrUnsupportedFileType = errors.New("preview is not available for this file type")
)

// ErrorMessage picks the text shown for err: a service-provided detail first,
// then the error's own message, then the translated fallback.
// Sentinels always use their translated message.
func ErrorMessage(err error, tr i18n.Translator, fallbackKey string) string {
	switch {
	case errors.Is(err, ErrAuthMissing):
		return tr.Translate("errors.auth_missing", nil)
	case errors.Is(err, ErrEmptyResponse):
		return tr.Translate("errors.empty_response", nil)
	case errors.Is(err, ErrUnsupportedFileType):
		return tr.Translate("preview.unsupported", nil)
	}

	var reqErr *api.RequestError
	if errors.As(err, &reqErr) && reqErr.Detail != "" {
		return reqErr.Detail
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return tr.Translate(fallbackKey, nil)
}
