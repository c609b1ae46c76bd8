// Package notify delivers lockdown archives to out-of-band contact
// addresses. Delivery failures are reported through the returned error and
// never escalate; the caller logs them and continues.
package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/smtp"

	"securechat/internal/domain"
)

// SMTP sends archives as email attachments through a plain SMTP endpoint.
type SMTP struct {
	Addr string // host:port
	From string
	Auth smtp.Auth // optional
}

// NewSMTP returns an SMTP notifier.
func NewSMTP(addr, from string, auth smtp.Auth) *SMTP {
	return &SMTP{Addr: addr, From: from, Auth: auth}
}

// SendArchive emails the archive to address as a zip attachment.
func (n *SMTP) SendArchive(ctx context.Context, address string, archive []byte, meta domain.ArchiveMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := buildMessage(n.From, address, archive, meta)
	if err := smtp.SendMail(n.Addr, n.Auth, n.From, []string{address}, msg); err != nil {
		return fmt.Errorf("send archive to %s: %w", address, err)
	}
	return nil
}

const boundary = "securechat-archive-boundary"

func buildMessage(from, to string, archive []byte, meta domain.ArchiveMetadata) []byte {
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "From: %s\r\n", from)
	fmt.Fprintf(buf, "To: %s\r\n", to)
	fmt.Fprintf(buf, "Subject: Session %s export\r\n", meta.SessionID)
	fmt.Fprintf(buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(buf, "--%s\r\n", boundary)
	fmt.Fprintf(buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(buf, "Session %s was permanently locked after repeated failed unlock attempts.\r\n", meta.SessionID)
	fmt.Fprintf(buf, "The attached archive contains the exported messages; the session content itself has been deleted.\r\n")
	if !meta.Encrypted {
		fmt.Fprintf(buf, "Note: the archive is not encrypted at rest. Store it safely.\r\n")
	}
	fmt.Fprintf(buf, "\r\n")

	fmt.Fprintf(buf, "--%s\r\n", boundary)
	fmt.Fprintf(buf, "Content-Type: application/zip\r\n")
	fmt.Fprintf(buf, "Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(buf, "Content-Disposition: attachment; filename=%q\r\n\r\n", meta.Filename)

	enc := base64.StdEncoding.EncodeToString(archive)
	for len(enc) > 76 {
		buf.WriteString(enc[:76])
		buf.WriteString("\r\n")
		enc = enc[76:]
	}
	buf.WriteString(enc)
	fmt.Fprintf(buf, "\r\n--%s--\r\n", boundary)
	return buf.Bytes()
}

// Disabled is the notifier used when no SMTP endpoint is configured. Every
// delivery reports failure, which the lockdown procedure logs and ignores.
type Disabled struct{}

// SendArchive always reports that delivery is unavailable.
func (Disabled) SendArchive(context.Context, string, []byte, domain.ArchiveMetadata) error {
	return errors.New("notifier not configured")
}

// Compile-time assertions.
var (
	_ domain.Notifier = (*SMTP)(nil)
	_ domain.Notifier = Disabled{}
)
