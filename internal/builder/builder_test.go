package builder

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/futig/pdfchat-backend/internal/config"
	"github.com/futig/pdfchat-backend/internal/entity"
	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	t.Setenv("ENABLE_MOCKS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "*")
	cfg, err := config.Parse()
	require.NoError(t, err)

	router, err := BuildRouter(cfg, zap.NewNop())
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func samplePDF(t *testing.T, pages ...string) []byte {
	t.Helper()

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.SetFont("Arial", "", 12)
	for _, text := range pages {
		doc.AddPage()
		doc.Cell(40, 10, text)
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func upload(t *testing.T, srv *httptest.Server, filename, contentType string, content []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/upload", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestEndToEnd_UploadSearchChat(t *testing.T) {
	srv := testServer(t)

	resp := upload(t, srv, "animals.pdf", "application/pdf", samplePDF(t, "Cats are mammals.", "Dogs bark loudly."))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	uploaded := decodeBody[entity.UploadResponse](t, resp)
	require.NotEmpty(t, uploaded.PDFID)
	assert.Equal(t, 2, uploaded.NumPages)
	assert.Greater(t, uploaded.CharCount, 0)
	assert.True(t, uploaded.AIFeaturesEnabled)

	id := uploaded.PDFID

	resp = get(t, srv.URL+"/pdf/"+id+"/search?query=CATS")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	found := decodeBody[entity.SearchResponse](t, resp)
	require.NotEmpty(t, found.Occurrences)
	assert.Contains(t, strings.ToLower(found.Occurrences[0].Context), "cats")

	resp = get(t, srv.URL+"/pdf/"+id+"/page/2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decodeBody[entity.PageResponse](t, resp)
	assert.Contains(t, page.Content, "Dogs")

	chatBody := `{"pdf_id":"` + id + `","query":"What are cats?"}`
	resp, err := http.Post(srv.URL+"/chat", "application/json", strings.NewReader(chatBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	answer := decodeBody[entity.ChatResponse](t, resp)
	assert.Equal(t, id, answer.PDFID)
	assert.NotEmpty(t, answer.Answer)

	resp = get(t, srv.URL+"/pdf/"+id+"/history")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decodeBody[entity.HistoryResponse](t, resp)
	require.Len(t, history.Turns, 1)
	assert.Equal(t, "What are cats?", history.Turns[0].Question)

	resp = get(t, srv.URL+"/pdf/"+id+"/raw")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/pdf/"+id, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer delResp.Body.Close()
	assert.Equal(t, http.StatusOK, delResp.StatusCode)

	resp = get(t, srv.URL+"/pdf/"+id+"/raw")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEndToEnd_RejectsBadUploads(t *testing.T) {
	srv := testServer(t)

	resp := upload(t, srv, "notes.txt", "text/plain", []byte("plain text"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = upload(t, srv, "broken.pdf", "application/pdf", []byte("not really a pdf"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp = get(t, srv.URL+"/pdf")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[entity.ListDocumentsResponse](t, resp)
	assert.Empty(t, list.Documents)
}

func TestEndToEnd_ChatUnknownDocument(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/chat", "application/json", strings.NewReader(`{"pdf_id":"nope","query":"hi"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEndToEnd_Health(t *testing.T) {
	srv := testServer(t)

	resp := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	msg := decodeBody[entity.MessageResponse](t, resp)
	assert.NotEmpty(t, msg.Message)
}

func TestEndToEnd_PageConcatenationAndSearchIndex(t *testing.T) {
	srv := testServer(t)

	resp := upload(t, srv, "sample.pdf", "application/pdf", samplePDF(t, "Hello world. ", "Foo bar."))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	uploaded := decodeBody[entity.UploadResponse](t, resp)
	assert.Equal(t, 2, uploaded.NumPages)
	assert.Equal(t, 21, uploaded.CharCount)
	assert.True(t, uploaded.AIFeaturesEnabled)

	resp = get(t, srv.URL+"/pdf/"+uploaded.PDFID+"/search?query=world")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	found := decodeBody[entity.SearchResponse](t, resp)
	require.Len(t, found.Occurrences, 1)
	assert.Equal(t, 6, found.Occurrences[0].Index)
	assert.Equal(t, "Hello world. Foo bar.", found.Occurrences[0].Context)
}

func TestEndToEnd_DOCXExportWithoutLicense(t *testing.T) {
	srv := testServer(t)

	resp := upload(t, srv, "sample.pdf", "application/pdf", samplePDF(t, "Hello world."))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	uploaded := decodeBody[entity.UploadResponse](t, resp)

	resp = get(t, srv.URL+"/pdf/"+uploaded.PDFID+"/history?format=docx")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = get(t, srv.URL+"/pdf/"+uploaded.PDFID+"/history?format=markdown")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "sample_chat.md")
}
