package postgres_test

import (
	"testing"
	"time"

	"github.com/frahmantamala/records-management/internal/auth"
	"github.com/frahmantamala/records-management/internal/casefile"
	casefilePostgres "github.com/frahmantamala/records-management/internal/casefile/postgres"
	casefileDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/casefile"
	entryDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/entry"
	hashtagDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/hashtag"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestCaseFilePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CaseFile Postgres Suite")
}

var _ = Describe("CaseFile Repository", func() {
	var (
		db   *gorm.DB
		repo *casefilePostgres.Repository

		ownedCase *casefileDatamodel.CaseFile
		otherCase *casefileDatamodel.CaseFile
		superuser auth.Actor
		owner     auth.Actor
	)

	BeforeEach(func() {
		var err error
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

		repo = casefilePostgres.NewRepository(db)

		ownedCase = &casefileDatamodel.CaseFile{
			UserID:    10,
			Subject:   "noise complaint",
			EventDate: time.Now().Add(-24 * time.Hour),
			IsActive:  true,
		}
		Expect(repo.Create(ownedCase)).To(Succeed())

		otherCase = &casefileDatamodel.CaseFile{
			UserID:    20,
			Subject:   "property dispute",
			EventDate: time.Now().Add(-48 * time.Hour),
			IsActive:  true,
		}
		Expect(repo.Create(otherCase)).To(Succeed())

		superuser = auth.Actor{ID: 1, IsSuperuser: true}
		owner = auth.Actor{ID: 10}
	})

	Describe("ListVisible", func() {
		It("returns every case file to a superuser", func() {
			records, err := repo.ListVisible(superuser, casefile.ListParams{})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
		})

		It("restricts regular users to their own case files", func() {
			records, err := repo.ListVisible(owner, casefile.ListParams{})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].UserID).To(Equal(int64(10)))
		})

		It("returns newest case files first", func() {
			older := &casefileDatamodel.CaseFile{
				UserID:    10,
				Subject:   "archived dispute",
				EventDate: time.Now(),
				IsActive:  true,
				CreatedAt: time.Now().Add(-time.Hour),
			}
			Expect(db.Create(older).Error).NotTo(HaveOccurred())

			records, err := repo.ListVisible(superuser, casefile.ListParams{})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(3))
			Expect(records[len(records)-1].Subject).To(Equal("archived dispute"))
		})

		It("filters by owner and active flag", func() {
			records, err := repo.ListVisible(superuser, casefile.ListParams{UserID: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Subject).To(Equal("property dispute"))

			otherCase.IsActive = false
			Expect(repo.Update(otherCase)).To(Succeed())

			active := true
			records, err = repo.ListVisible(superuser, casefile.ListParams{IsActive: &active})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Subject).To(Equal("noise complaint"))
		})

		It("searches description as well as subject", func() {
			note := "vecino inconforme"
			ownedCase.Description = &note
			Expect(repo.Update(ownedCase)).To(Succeed())

			records, err := repo.ListVisible(superuser, casefile.ListParams{Search: "inconforme"})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].ID).To(Equal(ownedCase.ID))
		})
	})

	Describe("GetVisible", func() {
		It("reports someone else's case file as missing", func() {
			_, err := repo.GetVisible(owner, otherCase.ID)
			Expect(err).To(HaveOccurred())
		})

		It("resolves the owner's case file", func() {
			record, err := repo.GetVisible(owner, ownedCase.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(record.Subject).To(Equal("noise complaint"))
		})
	})

	Describe("DeleteCascade", func() {
		var (
			entry       *entryDatamodel.Entry
			association *entryDatamodel.EntryHashtag
		)

		BeforeEach(func() {
			entry = &entryDatamodel.Entry{
				CaseFileID: ownedCase.ID,
				Location:   "north gate",
				RecordedAt: time.Now(),
				IsActive:   true,
			}
			Expect(db.Create(entry).Error).NotTo(HaveOccurred())

			tag := &hashtagDatamodel.Hashtag{Description: "urgente", IsActive: true}
			Expect(db.Create(tag).Error).NotTo(HaveOccurred())

			association = &entryDatamodel.EntryHashtag{HashtagID: tag.ID, EntryID: entry.ID}
			Expect(db.Create(association).Error).NotTo(HaveOccurred())
		})

		It("removes the case file, its entries, and their associations", func() {
			Expect(repo.DeleteCascade(ownedCase.ID)).To(Succeed())

			var caseCount, entryCount, assocCount int64
			db.Model(&casefileDatamodel.CaseFile{}).Where("id = ?", ownedCase.ID).Count(&caseCount)
			db.Model(&entryDatamodel.Entry{}).Where("case_file_id = ?", ownedCase.ID).Count(&entryCount)
			db.Model(&entryDatamodel.EntryHashtag{}).Where("entry_id = ?", entry.ID).Count(&assocCount)

			Expect(caseCount).To(BeZero())
			Expect(entryCount).To(BeZero())
			Expect(assocCount).To(BeZero())
		})

		It("leaves unrelated case files untouched", func() {
			Expect(repo.DeleteCascade(ownedCase.ID)).To(Succeed())

			var count int64
			db.Model(&casefileDatamodel.CaseFile{}).Count(&count)
			Expect(count).To(Equal(int64(1)))
		})
	})
})
