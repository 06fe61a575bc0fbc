package document

import "github.com/futig/pdfchat-backend/internal/entity"

const uploadSuccessMessage = "PDF uploaded and processed successfully."

func toUploadResponse(res *entity.UploadResult) *entity.UploadResponse {
	return &entity.UploadResponse{
		Message:           uploadSuccessMessage,
		PDFID:             res.ID,
		Filename:          res.Filename,
		NumPages:          res.NumPages,
		CharCount:         res.CharCount,
		AIFeaturesEnabled: res.ChatEnabled,
	}
}

func toDocumentDTO(doc *entity.Document) *entity.DocumentDTO {
	return &entity.DocumentDTO{
		PDFID:             doc.ID,
		Filename:          doc.Filename,
		SizeBytes:         len(doc.Content),
		NumPages:          doc.NumPages(),
		CharCount:         doc.CharCount,
		AIFeaturesEnabled: doc.ChatEnabled(),
		ChatTurns:         doc.Conversation.Len(),
		CreatedAt:         doc.CreatedAt,
	}
}
