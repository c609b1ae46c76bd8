// Package archive packages exported session messages for out-of-band
// delivery during lockdown.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"securechat/internal/domain"
)

type manifest struct {
	SessionID string `json:"session_id"`
	CreatedAt int64  `json:"created_at"`
	Messages  int    `json:"messages"`
	Encrypted bool   `json:"encrypted"`
}

// BuildZip packages the exported envelopes into a zip archive and returns
// the archive bytes plus its filename.
//
// The archive is plaintext at rest: the passphrase never reaches this side
// of the protocol, so there is nothing to encrypt it with. The manifest
// records that openly instead of pretending otherwise.
func BuildZip(sessionID string, envelopes []domain.Envelope) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	man, err := json.MarshalIndent(manifest{
		SessionID: sessionID,
		CreatedAt: time.Now().Unix(),
		Messages:  len(envelopes),
		Encrypted: false,
	}, "", "  ")
	if err != nil {
		return nil, "", err
	}
	if err := addFile(zw, "manifest.json", man); err != nil {
		return nil, "", err
	}

	msgs, err := json.MarshalIndent(envelopes, "", "  ")
	if err != nil {
		return nil, "", err
	}
	if err := addFile(zw, "messages.json", msgs); err != nil {
		return nil, "", err
	}

	if err := zw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("session-%s-export.zip", sessionID), nil
}

func addFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
