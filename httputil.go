package costbasis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// httpStatusError is returned by jwget for a response other than 200 OK.
type httpStatusError struct {
	Host, Path string
	Status     string
	Code       int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("cannot http GET %v%v: %v", e.Host, e.Path, e.Status)
}

// jwget performs an HTTP GET request and decodes the JSON response into
// data. Numbers are decoded as json.Number to keep them exact.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	log.Info().Str("method", req.Method).Str("host", req.URL.Host).Str("path", req.URL.Path).Int("status", resp.StatusCode).Msg("http request")
	if resp.StatusCode != http.StatusOK {
		return &httpStatusError{Host: req.URL.Host, Path: req.URL.Path, Status: resp.Status, Code: resp.StatusCode}
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(data)
}
