package entity

type ChatRequest struct {
	PDFID string `json:"pdf_id"`
	Query string `json:"query"`
}

type ChatResponse struct {
	PDFID  string `json:"pdf_id"`
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

type HistoryResponse struct {
	PDFID string `json:"pdf_id"`
	Turns []Turn `json:"turns"`
}

// ExportedFile is a rendered conversation ready to be downloaded
type ExportedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
