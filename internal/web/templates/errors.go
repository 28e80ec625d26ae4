package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ErrorAlert renders an inline error box with the support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="alert alert-error" role="alert"><p class="alert-message">`)
		h.text(message)
		h.raw(`</p>`)
		if action != "" {
			h.raw(`<p class="alert-action">`)
			h.text(action)
			h.raw(`</p>`)
		}
		if code != "" {
			h.raw(`<p class="alert-code">오류 코드: <code>`)
			h.text(code)
			h.raw(`</code></p>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

// ErrorPage is the full page shown when the dashboard cannot render at all.
func ErrorPage(message, action, code string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<main class="error-page"><h1>대시보드를 표시할 수 없습니다</h1>`)
		if h.err != nil {
			return h.err
		}
		if err := ErrorAlert(message, action, code).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`<p><a href="/">다시 시도</a></p></main>`)
		return h.err
	})
	return Page("오류 - OTT 이용 비율", body)
}
