package entry_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/auth"
	casefileDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/casefile"
	entryDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/entry"
	hashtagDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/hashtag"
	"github.com/frahmantamala/records-management/internal/entry"
	"github.com/frahmantamala/records-management/internal/storage"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"
)

func TestEntryService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Entry Service Suite")
}

// MockRepository implements entry.Repository for testing
type MockRepository struct {
	entries      map[int64]*entryDatamodel.Entry
	associations map[int64]*entryDatamodel.EntryHashtag
	nextAssocID  int64
	photoURLs    map[int64]string
	shouldFail   bool
	failError    error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		entries:      make(map[int64]*entryDatamodel.Entry),
		associations: make(map[int64]*entryDatamodel.EntryHashtag),
		photoURLs:    make(map[int64]string),
		nextAssocID:  1,
	}
}

func (m *MockRepository) visible(actor auth.Actor, e *entryDatamodel.Entry) bool {
	if actor.IsSuperuser {
		return true
	}
	return e.CreatedBy != nil && *e.CreatedBy == actor.ID
}

func (m *MockRepository) ListVisible(actor auth.Actor, params entry.ListParams) ([]*entryDatamodel.Entry, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*entryDatamodel.Entry
	for _, e := range m.entries {
		if m.visible(actor, e) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockRepository) ListVisibleByCaseFile(actor auth.Actor, caseFileID int64, params entry.ListParams) ([]*entryDatamodel.Entry, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*entryDatamodel.Entry
	for _, e := range m.entries {
		if e.CaseFileID == caseFileID && m.visible(actor, e) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockRepository) GetVisible(actor auth.Actor, id int64) (*entryDatamodel.Entry, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	e, ok := m.entries[id]
	if !ok || !m.visible(actor, e) {
		return nil, errors.New("record not found")
	}
	return e, nil
}

func (m *MockRepository) Create(e *entryDatamodel.Entry) error {
	if m.shouldFail {
		return m.failError
	}
	e.ID = int64(len(m.entries) + 1)
	m.entries[e.ID] = e
	return nil
}

func (m *MockRepository) Update(e *entryDatamodel.Entry) error {
	if m.shouldFail {
		return m.failError
	}
	m.entries[e.ID] = e
	return nil
}

func (m *MockRepository) UpdatePhotoURL(id int64, url string) error {
	if m.shouldFail {
		return m.failError
	}
	m.photoURLs[id] = url
	return nil
}

func (m *MockRepository) GetOrCreateAssociation(entryID, hashtagID int64) (*entryDatamodel.EntryHashtag, bool, error) {
	if m.shouldFail {
		return nil, false, m.failError
	}
	for _, a := range m.associations {
		if a.EntryID == entryID && a.HashtagID == hashtagID {
			return a, false, nil
		}
	}
	a := &entryDatamodel.EntryHashtag{
		ID:        m.nextAssocID,
		EntryID:   entryID,
		HashtagID: hashtagID,
		CreatedAt: time.Now(),
	}
	m.nextAssocID++
	m.associations[a.ID] = a
	return a, true, nil
}

func (m *MockRepository) DeleteAssociation(entryID, hashtagID int64) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	for id, a := range m.associations {
		if a.EntryID == entryID && a.HashtagID == hashtagID {
			delete(m.associations, id)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MockRepository) HashtagsForEntry(entryID int64) ([]*hashtagDatamodel.Hashtag, error) {
	return nil, nil
}

func (m *MockRepository) ListVisibleAssociations(actor auth.Actor, params entry.AssociationListParams) ([]*entryDatamodel.EntryHashtag, error) {
	var result []*entryDatamodel.EntryHashtag
	for _, a := range m.associations {
		result = append(result, a)
	}
	return result, nil
}

func (m *MockRepository) GetVisibleAssociation(actor auth.Actor, id int64) (*entryDatamodel.EntryHashtag, error) {
	a, ok := m.associations[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return a, nil
}

func (m *MockRepository) DeleteAssociationByID(id int64) error {
	delete(m.associations, id)
	return nil
}

// MockCaseFiles implements entry.CaseFileReader
type MockCaseFiles struct {
	caseFiles map[int64]*casefileDatamodel.CaseFile
}

func (m *MockCaseFiles) GetVisible(actor auth.Actor, id int64) (*casefileDatamodel.CaseFile, error) {
	cf, ok := m.caseFiles[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	if !actor.IsSuperuser && cf.UserID != actor.ID {
		return nil, errors.New("record not found")
	}
	return cf, nil
}

// MockCatalog implements entry.Catalog
type MockCatalog struct {
	active map[int64]bool
}

func (m *MockCatalog) ActiveExists(id int64) (bool, error) {
	return m.active[id], nil
}

var _ = Describe("Entry Service", func() {
	var (
		mockRepo  *MockRepository
		caseFiles *MockCaseFiles
		catalog   *MockCatalog
		fs        afero.Fs
		store     *storage.FileStorage
		service   *entry.Service
		actor     auth.Actor
	)

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		mockRepo = NewMockRepository()
		caseFiles = &MockCaseFiles{caseFiles: map[int64]*casefileDatamodel.CaseFile{
			1: {ID: 1, UserID: 10, Subject: "own case", EventDate: time.Now(), IsActive: true},
			2: {ID: 2, UserID: 99, Subject: "foreign case", EventDate: time.Now(), IsActive: true},
		}}
		catalog = &MockCatalog{active: map[int64]bool{1: true, 2: false}}
		fs = afero.NewMemMapFs()
		store = storage.NewFileStorage(fs, "/uploads", "/media")

		service = entry.NewService(mockRepo, caseFiles, catalog, store, lg)
		actor = auth.Actor{ID: 10}
	})

	Describe("CreateEntry", func() {
		It("creates an entry with the actor as author and a capture timestamp", func() {
			created, err := service.CreateEntry(actor, entry.CreateEntryDTO{
				CaseFileID: 1,
				Location:   "north gate",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.CreatedBy).NotTo(BeNil())
			Expect(*created.CreatedBy).To(Equal(actor.ID))
			Expect(created.RecordedAt).NotTo(BeZero())
			Expect(created.IsActive).To(BeTrue())
		})

		It("rejects a case file the actor cannot see as not found", func() {
			_, err := service.CreateEntry(actor, entry.CreateEntryDTO{
				CaseFileID: 2,
				Location:   "north gate",
			})
			Expect(err).To(Equal(internal.ErrCaseFileNotFound))
		})

		It("rejects a missing location", func() {
			_, err := service.CreateEntry(actor, entry.CreateEntryDTO{CaseFileID: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("AttachHashtag", func() {
		var target *entry.Entry

		BeforeEach(func() {
			var err error
			target, err = service.CreateEntry(actor, entry.CreateEntryDTO{CaseFileID: 1, Location: "north gate"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("requires hashtag_id", func() {
			_, _, err := service.AttachHashtag(actor, target.ID, entry.AttachHashtagDTO{})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("reports an inaccessible entry as absent before inspecting the payload", func() {
			_, _, err := service.AttachHashtag(actor, 9999, entry.AttachHashtagDTO{})
			Expect(err).To(Equal(internal.ErrEntryNotFound))
		})

		It("rejects an inactive hashtag with a validation error, not a missing resource", func() {
			_, _, err := service.AttachHashtag(actor, target.ID, entry.AttachHashtagDTO{HashtagID: 2})
			Expect(err).To(Equal(internal.ErrHashtagInactive))
		})

		It("creates the association once and is idempotent after that", func() {
			first, created, err := service.AttachHashtag(actor, target.ID, entry.AttachHashtagDTO{HashtagID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())

			second, created, err := service.AttachHashtag(actor, target.ID, entry.AttachHashtagDTO{HashtagID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeFalse())
			Expect(second.ID).To(Equal(first.ID))
		})
	})

	Describe("DetachHashtag", func() {
		var target *entry.Entry

		BeforeEach(func() {
			var err error
			target, err = service.CreateEntry(actor, entry.CreateEntryDTO{CaseFileID: 1, Location: "north gate"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports a never-attached hashtag as a missing association", func() {
			err := service.DetachHashtag(actor, target.ID, 1)
			Expect(err).To(Equal(internal.ErrAssociationNotFound))
		})

		It("removes an attached hashtag", func() {
			_, _, err := service.AttachHashtag(actor, target.ID, entry.AttachHashtagDTO{HashtagID: 1})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DetachHashtag(actor, target.ID, 1)).To(Succeed())
			Expect(service.DetachHashtag(actor, target.ID, 1)).To(Equal(internal.ErrAssociationNotFound))
		})
	})

	Describe("AttachPhoto", func() {
		var target *entry.Entry

		BeforeEach(func() {
			var err error
			target, err = service.CreateEntry(actor, entry.CreateEntryDTO{CaseFileID: 1, Location: "north gate"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects an oversized file before touching storage", func() {
			_, err := service.AttachPhoto(actor, target.ID, entry.PhotoUpload{
				Filename:    "big.jpg",
				ContentType: "image/jpeg",
				Size:        entry.MaxPhotoSize + 1,
				Reader:      bytes.NewReader(nil),
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeFileTooLarge))
			Expect(mockRepo.photoURLs).To(BeEmpty())
		})

		It("rejects a non-image content type", func() {
			_, err := service.AttachPhoto(actor, target.ID, entry.PhotoUpload{
				Filename:    "notes.pdf",
				ContentType: "application/pdf",
				Size:        128,
				Reader:      strings.NewReader("%PDF"),
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidFileType))
			Expect(mockRepo.photoURLs).To(BeEmpty())
		})

		It("stores the file under the case file and entry path and records the URL", func() {
			updated, err := service.AttachPhoto(actor, target.ID, entry.PhotoUpload{
				Filename:    "Scene.JPG",
				ContentType: "image/jpeg",
				Size:        4,
				Reader:      bytes.NewReader([]byte{0xff, 0xd8, 0xff, 0xd9}),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.PhotoURL).NotTo(BeNil())
			Expect(*updated.PhotoURL).To(HavePrefix("/media/case_files/1/entries/1/"))
			Expect(*updated.PhotoURL).To(HaveSuffix(".jpg"))

			Expect(mockRepo.photoURLs[target.ID]).To(Equal(*updated.PhotoURL))

			storedKey := strings.TrimPrefix(*updated.PhotoURL, "/media/")
			exists, err := afero.Exists(fs, "/uploads/"+storedKey)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})
	})
})
