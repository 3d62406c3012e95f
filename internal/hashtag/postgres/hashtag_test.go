package postgres_test

import (
	"testing"

	"github.com/frahmantamala/records-management/internal/auth"
	hashtagDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/hashtag"
	"github.com/frahmantamala/records-management/internal/hashtag"
	hashtagPostgres "github.com/frahmantamala/records-management/internal/hashtag/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestHashtagPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Hashtag Postgres Suite")
}

var _ = Describe("Hashtag Repository", func() {
	var (
		db   *gorm.DB
		repo *hashtagPostgres.Repository

		activeTag  *hashtagDatamodel.Hashtag
		retiredTag *hashtagDatamodel.Hashtag
		superuser  auth.Actor
		regular    auth.Actor
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&hashtagDatamodel.Hashtag{})
		Expect(err).NotTo(HaveOccurred())

		repo = hashtagPostgres.NewRepository(db)

		activeTag = &hashtagDatamodel.Hashtag{Description: "urgente", IsActive: true}
		Expect(repo.Create(activeTag)).To(Succeed())

		retiredTag = &hashtagDatamodel.Hashtag{Description: "archivado", IsActive: true}
		Expect(repo.Create(retiredTag)).To(Succeed())
		retiredTag.IsActive = false
		Expect(repo.Update(retiredTag)).To(Succeed())

		superuser = auth.Actor{ID: 1, IsSuperuser: true}
		regular = auth.Actor{ID: 2}
	})

	Describe("ListVisible", func() {
		It("returns the whole catalog to a superuser", func() {
			records, err := repo.ListVisible(superuser, hashtag.ListParams{})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
		})

		It("hides retired tags from regular users", func() {
			records, err := repo.ListVisible(regular, hashtag.ListParams{})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Description).To(Equal("urgente"))
		})

		It("orders the catalog by description", func() {
			records, err := repo.ListVisible(superuser, hashtag.ListParams{})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].Description).To(Equal("archivado"))
			Expect(records[1].Description).To(Equal("urgente"))
		})
	})

	Describe("GetVisible", func() {
		It("reports a retired tag as missing for regular users", func() {
			_, err := repo.GetVisible(regular, retiredTag.ID)
			Expect(err).To(HaveOccurred())
		})

		It("lets a superuser fetch a retired tag", func() {
			record, err := repo.GetVisible(superuser, retiredTag.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(record.IsActive).To(BeFalse())
		})
	})

	Describe("GetActive", func() {
		It("returns active tags ordered by description", func() {
			Expect(repo.Create(&hashtagDatamodel.Hashtag{Description: "animales", IsActive: true})).To(Succeed())

			records, err := repo.GetActive()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].Description).To(Equal("animales"))
			Expect(records[1].Description).To(Equal("urgente"))
		})
	})

	Describe("ActiveExists", func() {
		It("is true for an active tag", func() {
			ok, err := repo.ActiveExists(activeTag.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("is false for a retired tag", func() {
			ok, err := repo.ActiveExists(retiredTag.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("is false for an unknown id", func() {
			ok, err := repo.ActiveExists(9999)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})
})
