package submission

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"autobid/models"
	"autobid/services/storage"
)

// Encode renders the payload as a multipart/form-data body, streaming each
// evidence file out of the store.
func Encode(ctx context.Context, p models.SubmissionPayload, store storage.EvidenceStore) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range Fields(p) {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}

	for _, file := range p.Files {
		if err := writeFile(ctx, w, file, store); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFile(ctx context.Context, w *multipart.Writer, file models.EvidenceFile, store storage.EvidenceStore) error {
	rc, err := store.Open(ctx, file.Ref)
	if err != nil {
		return fmt.Errorf("open evidence %s: %w", file.Field, err)
	}
	defer rc.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(string(file.Field)), quoteEscaper.Replace(file.FileName)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", file.Field, err)
	}
	if _, err := io.Copy(part, rc); err != nil {
		return fmt.Errorf("copy evidence %s: %w", file.Field, err)
	}
	return nil
}
