package document

import (
	"context"

	"github.com/futig/pdfchat-backend/internal/entity"
)

type DocumentUsecase interface {
	Upload(ctx context.Context, req *entity.UploadRequest) (*entity.UploadResult, error)
	Get(ctx context.Context, id string) (*entity.Document, error)
	GetRaw(ctx context.Context, id string) ([]byte, error)
	GetPage(ctx context.Context, id string, pageNum int) (string, error)
	List(ctx context.Context) ([]*entity.Document, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, id, query string) ([]entity.Occurrence, error)
}
