package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"securechat/internal/domain"
)

// HTTP talks to a chatd server.
type HTTP struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns a client for the given base URL.
func NewHTTP(base string) *HTTP { return &HTTP{Base: base, HTTP: http.DefaultClient} }

// SetPublicKeys publishes rec to the server's key directory.
func (c *HTTP) SetPublicKeys(rec domain.PublicKeyRecord) error {
	return c.post("/keys", rec)
}

// PublicKeys fetches the directory record for id. A 404 is (zero, false, nil).
func (c *HTTP) PublicKeys(id domain.Identity) (domain.PublicKeyRecord, bool, error) {
	path := "/keys/" + url.PathEscape(id.String())
	req, err := http.NewRequest(http.MethodGet, c.Base+path, nil)
	if err != nil {
		return domain.PublicKeyRecord{}, false, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return domain.PublicKeyRecord{}, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return domain.PublicKeyRecord{}, false, nil
	}
	if resp.StatusCode/100 != 2 {
		return domain.PublicKeyRecord{}, false, fmt.Errorf("relay get %s: %s", path, resp.Status)
	}
	var rec domain.PublicKeyRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return domain.PublicKeyRecord{}, false, err
	}
	return rec, true, nil
}

// Push submits env for storage and push delivery. Fire-and-forget: errors
// are dropped, the local store keeps the authoritative copy.
func (c *HTTP) Push(id domain.Identity, env domain.Envelope) {
	_ = c.post("/envelope", env)
}

func (c *HTTP) post(path string, in any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay post %s: %s", path, resp.Status)
	}
	return nil
}

// Compile-time assertions.
var (
	_ domain.KeyDirectory = (*HTTP)(nil)
	_ domain.Transport    = (*HTTP)(nil)
)
