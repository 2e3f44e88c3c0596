package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"senior-house/internal/models"
	"senior-house/internal/repositories"
	"senior-house/internal/storage"
)

const certificatePrefix = "certificates"

// ResumeService manages each user's single resume and its certificate images.
type ResumeService struct {
	store   repositories.Store
	objects storage.ObjectStorage
}

func NewResumeService(store repositories.Store, objects storage.ObjectStorage) *ResumeService {
	return &ResumeService{store: store, objects: objects}
}

// Get returns the caller's resume with its certificates.
func (s *ResumeService) Get(ctx context.Context, userID int) (models.Resume, error) {
	resume, err := s.store.Resumes().GetByUser(ctx, userID)
	if err != nil {
		return models.Resume{}, mapNotFound(err, repositories.ErrResumeNotFound, models.ErrResumeNotFound)
	}
	resume.Certificates, err = s.store.Resumes().ListCertificates(ctx, resume.ID)
	if err != nil {
		return models.Resume{}, err
	}
	return resume, nil
}

// GetPublic returns ownerID's resume to viewerID when it is public or the viewer owns it.
func (s *ResumeService) GetPublic(ctx context.Context, ownerID, viewerID int) (models.Resume, error) {
	resume, err := s.Get(ctx, ownerID)
	if err != nil {
		return models.Resume{}, err
	}
	if !resume.IsPublic && ownerID != viewerID {
		return models.Resume{}, fmt.Errorf("%w: resume is private", models.ErrForbidden)
	}
	return resume, nil
}

// Upsert creates or overwrites the caller's resume.
func (s *ResumeService) Upsert(ctx context.Context, userID int, req models.ResumeRequest) (models.Resume, error) {
	if err := req.Validate(); err != nil {
		return models.Resume{}, err
	}
	resume := models.Resume{UserID: userID}
	req.ApplyTo(&resume)
	if err := s.store.Resumes().Upsert(ctx, &resume); err != nil {
		return models.Resume{}, fmt.Errorf("save resume: %w", err)
	}
	return s.Get(ctx, userID)
}

// AddCertificate uploads the image and attaches it to the caller's resume.
// The uploaded object is deleted again when the row cannot be written.
func (s *ResumeService) AddCertificate(ctx context.Context, userID int, name, filename, contentType string, body io.Reader) (models.Certificate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Certificate{}, models.Validationf("certificate name is required")
	}
	resume, err := s.store.Resumes().GetByUser(ctx, userID)
	if err != nil {
		return models.Certificate{}, mapNotFound(err, repositories.ErrResumeNotFound, models.ErrResumeNotFound)
	}

	imageURL, err := s.objects.Upload(ctx, certificatePrefix, filename, contentType, body)
	if err != nil {
		log.Printf("certificate upload failed: user_id=%d err=%v", userID, err)
		return models.Certificate{}, models.ErrStorageUpload
	}
	cert := models.Certificate{ResumeID: resume.ID, Name: name, ImageURL: imageURL}
	if err := s.store.Resumes().AddCertificate(ctx, &cert); err != nil {
		if delErr := s.objects.Delete(ctx, imageURL); delErr != nil {
			log.Printf("orphaned certificate object: url=%s err=%v", imageURL, delErr)
		}
		return models.Certificate{}, fmt.Errorf("add certificate: %w", err)
	}
	return cert, nil
}

// DeleteCertificate removes the object first. When the object store refuses,
// the row is kept so it never points at a file that is gone.
func (s *ResumeService) DeleteCertificate(ctx context.Context, userID, certID int) error {
	cert, err := s.store.Resumes().GetCertificate(ctx, certID)
	if err != nil {
		return mapNotFound(err, repositories.ErrCertificateNotFound, models.ErrCertificateNotFound)
	}
	resume, err := s.store.Resumes().GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrResumeNotFound) {
			return models.ErrCertificateNotFound
		}
		return err
	}
	if cert.ResumeID != resume.ID {
		return models.ErrCertificateNotFound
	}

	if err := s.objects.Delete(ctx, cert.ImageURL); err != nil {
		log.Printf("certificate object delete failed: cert_id=%d err=%v", certID, err)
		return models.ErrStorageDelete
	}
	return mapNotFound(s.store.Resumes().DeleteCertificate(ctx, certID), repositories.ErrCertificateNotFound, models.ErrCertificateNotFound)
}
