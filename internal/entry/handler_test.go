package entry_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strconv"
	"time"

	"github.com/frahmantamala/records-management/internal/auth"
	casefilePostgres "github.com/frahmantamala/records-management/internal/casefile/postgres"
	casefileDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/casefile"
	entryDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/entry"
	hashtagDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/hashtag"
	"github.com/frahmantamala/records-management/internal/entry"
	entryPostgres "github.com/frahmantamala/records-management/internal/entry/postgres"
	hashtagPostgres "github.com/frahmantamala/records-management/internal/hashtag/postgres"
	"github.com/frahmantamala/records-management/internal/storage"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func requestWithActorAndID(method, target string, body *bytes.Buffer, actor auth.Actor, id int64) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", strconv.FormatInt(id, 10))

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = auth.ContextWithActor(ctx, &actor)
	return req.WithContext(ctx)
}

func multipartPhoto(field, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	Expect(err).NotTo(HaveOccurred())
	_, err = part.Write(payload)
	Expect(err).NotTo(HaveOccurred())
	Expect(writer.Close()).To(Succeed())

	return body, writer.FormDataContentType()
}

var _ = Describe("Entry Handler Integration", func() {
	var (
		db      *gorm.DB
		handler *entry.Handler
		actor   auth.Actor
		target  *entryDatamodel.Entry
		tag     *hashtagDatamodel.Hashtag
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&casefileDatamodel.CaseFile{},
			&entryDatamodel.Entry{},
			&entryDatamodel.EntryHashtag{},
			&hashtagDatamodel.Hashtag{},
		)
		Expect(err).NotTo(HaveOccurred())

		actor = auth.Actor{ID: 10}

		caseFile := &casefileDatamodel.CaseFile{
			UserID:    actor.ID,
			Subject:   "noise complaint",
			EventDate: time.Now(),
			IsActive:  true,
		}
		Expect(db.Create(caseFile).Error).NotTo(HaveOccurred())

		authorID := actor.ID
		target = &entryDatamodel.Entry{
			CaseFileID: caseFile.ID,
			CreatedBy:  &authorID,
			Location:   "north gate",
			RecordedAt: time.Now(),
			IsActive:   true,
		}
		Expect(db.Create(target).Error).NotTo(HaveOccurred())

		tag = &hashtagDatamodel.Hashtag{Description: "urgente", IsActive: true}
		Expect(db.Create(tag).Error).NotTo(HaveOccurred())

		store := storage.NewFileStorage(afero.NewMemMapFs(), "/uploads", "/media")
		service := entry.NewService(
			entryPostgres.NewRepository(db),
			casefilePostgres.NewRepository(db),
			hashtagPostgres.NewRepository(db),
			store,
			slogger,
		)
		handler = entry.NewHandler(slogger, service)
	})

	Describe("POST /entries/{id}/photo", func() {
		It("rejects a request without a file field", func() {
			body, contentType := multipartPhoto("attachment", "x.jpg", "image/jpeg", []byte{0xff})
			req := requestWithActorAndID(http.MethodPost, "/entries/1/photo", body, actor, target.ID)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			handler.AttachPhoto(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("MISSING_FILE"))
		})

		It("rejects a malformed multipart body without blaming the file size", func() {
			body := bytes.NewBufferString("this is not multipart data")
			req := requestWithActorAndID(http.MethodPost, "/entries/1/photo", body, actor, target.ID)
			req.Header.Set("Content-Type", "multipart/form-data; boundary=broken")
			w := httptest.NewRecorder()

			handler.AttachPhoto(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("INVALID_UPLOAD"))
			Expect(w.Body.String()).NotTo(ContainSubstring("FILE_TOO_LARGE"))
		})

		It("rejects a non-image upload", func() {
			body, contentType := multipartPhoto("photo", "notes.pdf", "application/pdf", []byte("%PDF"))
			req := requestWithActorAndID(http.MethodPost, "/entries/1/photo", body, actor, target.ID)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			handler.AttachPhoto(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("INVALID_FILE_TYPE"))
		})

		It("rejects a file above the size limit", func() {
			oversized := make([]byte, entry.MaxPhotoSize+1)
			body, contentType := multipartPhoto("photo", "big.jpg", "image/jpeg", oversized)
			req := requestWithActorAndID(http.MethodPost, "/entries/1/photo", body, actor, target.ID)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			handler.AttachPhoto(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("FILE_TOO_LARGE"))
		})

		It("accepts an image under an alternate field name and returns an absolute URL", func() {
			body, contentType := multipartPhoto("file", "scene.jpg", "image/jpeg", []byte{0xff, 0xd8, 0xff, 0xd9})
			req := requestWithActorAndID(http.MethodPost, "/entries/1/photo", body, actor, target.ID)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			handler.AttachPhoto(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp entry.EntryResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.PhotoURL).NotTo(BeNil())
			Expect(*resp.PhotoURL).To(HavePrefix("http://example.com/media/case_files/"))
			Expect(*resp.PhotoURL).To(HaveSuffix(".jpg"))
		})
	})

	Describe("POST /entries/{id}/hashtags", func() {
		attach := func() *httptest.ResponseRecorder {
			payload, err := json.Marshal(entry.AttachHashtagDTO{HashtagID: tag.ID})
			Expect(err).NotTo(HaveOccurred())

			req := requestWithActorAndID(http.MethodPost, "/entries/1/hashtags", bytes.NewBuffer(payload), actor, target.ID)
			w := httptest.NewRecorder()
			handler.AttachHashtag(w, req)
			return w
		}

		It("returns 201 on first attach and 200 on repeat", func() {
			Expect(attach().Code).To(Equal(http.StatusCreated))
			Expect(attach().Code).To(Equal(http.StatusOK))

			var count int64
			db.Model(&entryDatamodel.EntryHashtag{}).Count(&count)
			Expect(count).To(Equal(int64(1)))
		})

		It("returns 400 when the hashtag is retired", func() {
			tag.IsActive = false
			Expect(db.Save(tag).Error).NotTo(HaveOccurred())

			w := attach()
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("HASHTAG_NOT_FOUND_OR_INACTIVE"))
		})
	})
})
