package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTranslateServer поднимает фейковый /v2/translate, запоминая
// текст, который реально ушел в API
func newTranslateServer(t *testing.T, sent *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		*sent = r.PostFormValue("text")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"translations":[{"text":"переведено"}]}`))
	}))
}

func TestDeepLClient_NormalizesASCIICase(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		sent string
	}{
		// ASCII-текст с буквы в начале нормализуется по регистру
		{"lowercase start", "hello WORLD", "Hello world"},
		{"already capitalized", "Extra towels", "Extra towels"},
		// Не-ASCII и не-буквенное начало уходят как есть
		{"non-ascii untouched", "привет МИР", "привет МИР"},
		{"digit start untouched", "2 towels PLEASE", "2 towels PLEASE"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var sent string
			srv := newTranslateServer(t, &sent)
			defer srv.Close()

			client := NewDeepLClient(srv.URL, "test-key")
			got, err := client.Translate(context.Background(), tc.in, "EN")
			require.NoError(t, err)
			assert.Equal(t, "переведено", got)
			assert.Equal(t, tc.sent, sent)
		})
	}
}

func TestDeepLClient_ErrorOnBadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewDeepLClient(srv.URL, "test-key")
	_, err := client.Translate(context.Background(), "hello", "EN")
	assert.Error(t, err)
}
