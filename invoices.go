package dougs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dmitrymomot/dougs/pkg/logger"
)

// attachmentTypes are the MIME types accepted for vendor invoices.
var attachmentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// AttachmentMIMEType resolves the MIME type of filename from its extension
// and checks it against the accepted invoice types.
func AttachmentMIMEType(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "", &UnsupportedAttachmentError{Filename: filename}
	}

	mediaType, _, err := mime.ParseMediaType(mime.TypeByExtension(ext))
	if err != nil {
		return "", &UnsupportedAttachmentError{Filename: filename}
	}
	if !attachmentTypes[mediaType] {
		return "", &UnsupportedAttachmentError{Filename: filename, MIMEType: mediaType}
	}
	return mediaType, nil
}

// UploadVendorInvoice uploads a purchase invoice. The file is rejected
// before any request is made unless it is a PDF, JPEG or PNG.
func (c *Client) UploadVendorInvoice(ctx context.Context, companyID int64, filename string, content io.Reader) (*UploadVendorInvoiceResponse, error) {
	mediaType, err := AttachmentMIMEType(filename)
	if err != nil {
		return nil, err
	}

	// Buffered so the transport can replay the body on retry
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(uploadName(filename))))
	h.Set("Content-Type", mediaType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("creating multipart part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("reading invoice content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	query := url.Values{}
	query.Set("type", "attachment")

	req, err := c.newRequest(ctx, http.MethodPost, companyPath(companyID, "vendor-invoices"), query, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}
	invoice, err := decodeOne[UploadVendorInvoiceResponse](data)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "vendor invoice uploaded",
		logger.CompanyID(companyID),
		slog.String("invoice_id", invoice.ID.String()),
		slog.String("mime_type", mediaType),
	)
	return invoice, nil
}

// uploadName strips directories and normalises to NFC so names coming
// from decomposing filesystems (macOS) are stored as typed.
func uploadName(filename string) string {
	return norm.NFC.String(filepath.Base(filename))
}
