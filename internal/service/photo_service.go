package service

import (
	"context"
	"errors"
	"mime/multipart"

	"shop-service/internal/apperror"
	"shop-service/internal/model"
	"shop-service/internal/repository"
	"shop-service/pkg/storage"

	"go.uber.org/zap"
)

// UploadedFile is the response of a standalone upload
type UploadedFile struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// PhotoService manages product images. Image rows are the source of truth;
// file removal failures are logged and never undo a row change.
type PhotoService struct {
	products repository.ProductRepository
	files    FileStore
	onChange func(ctx context.Context)
	log      *zap.Logger
}

// NewPhotoService creates the service. onChange runs after every image write
// and may be nil.
func NewPhotoService(products repository.ProductRepository, files FileStore, onChange func(ctx context.Context), log *zap.Logger) *PhotoService {
	if onChange == nil {
		onChange = func(context.Context) {}
	}
	return &PhotoService{products: products, files: files, onChange: onChange, log: log}
}

// Upload stores a file without attaching it to a product
func (s *PhotoService) Upload(ctx context.Context, fh *multipart.FileHeader) (*UploadedFile, error) {
	name, err := s.save(fh)
	if err != nil {
		return nil, err
	}
	return &UploadedFile{Filename: name, Path: s.files.PublicPath(name)}, nil
}

// Append stores the files and adds them after the product's existing images
func (s *PhotoService) Append(ctx context.Context, productID uint, files []*multipart.FileHeader) (*model.Product, error) {
	if len(files) == 0 {
		return nil, apperror.Validation("at least one file is required")
	}
	if _, err := s.load(ctx, productID); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := s.save(fh)
		if err != nil {
			s.discard(names)
			return nil, err
		}
		names = append(names, name)
	}

	if err := s.products.AddImages(ctx, productID, names); err != nil {
		s.discard(names)
		return nil, apperror.Internal(err, "failed to save product images")
	}
	s.onChange(ctx)
	return s.load(ctx, productID)
}

// Replace swaps the file behind one image row
func (s *PhotoService) Replace(ctx context.Context, productID, photoID uint, fh *multipart.FileHeader) (*model.Product, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	image := product.FindImage(photoID)
	if image == nil {
		return nil, apperror.NotFound("photo not found")
	}

	name, err := s.save(fh)
	if err != nil {
		return nil, err
	}
	if err := s.products.ReplaceImage(ctx, photoID, name); err != nil {
		s.discard([]string{name})
		return nil, apperror.Internal(err, "failed to replace product image")
	}
	removeFile(s.files, s.log, image.Filename)

	s.onChange(ctx)
	return s.load(ctx, productID)
}

// Delete removes one image row and its file
func (s *PhotoService) Delete(ctx context.Context, productID, photoID uint) (*model.Product, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	image := product.FindImage(photoID)
	if image == nil {
		return nil, apperror.NotFound("photo not found")
	}

	if err := s.products.DeleteImage(ctx, photoID); err != nil {
		return nil, apperror.Internal(err, "failed to delete product image")
	}
	removeFile(s.files, s.log, image.Filename)

	s.onChange(ctx)
	return s.load(ctx, productID)
}

// DeleteAll removes every image row and file of the product
func (s *PhotoService) DeleteAll(ctx context.Context, productID uint) (*model.Product, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := s.products.DeleteImages(ctx, productID); err != nil {
		return nil, apperror.Internal(err, "failed to delete product images")
	}
	for _, img := range product.Images {
		removeFile(s.files, s.log, img.Filename)
	}

	s.onChange(ctx)
	return s.load(ctx, productID)
}

func (s *PhotoService) load(ctx context.Context, productID uint) (*model.Product, error) {
	product, err := s.products.FindWithImages(ctx, productID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load product")
	}
	if product == nil {
		return nil, apperror.NotFound("product not found")
	}
	if product.Images == nil {
		product.Images = []model.ProductImage{}
	}
	return product, nil
}

func (s *PhotoService) save(fh *multipart.FileHeader) (string, error) {
	name, err := s.files.Save(fh)
	switch {
	case err == nil:
		return name, nil
	case errors.Is(err, storage.ErrUnsupportedType):
		return "", apperror.Validation("only jpg, jpeg, png, webp and gif images are allowed")
	case errors.Is(err, storage.ErrFileTooLarge):
		return "", apperror.Validation("file %q is too large", fh.Filename)
	default:
		return "", apperror.Internal(err, "failed to save file")
	}
}

func (s *PhotoService) discard(names []string) {
	for _, name := range names {
		removeFile(s.files, s.log, name)
	}
}
