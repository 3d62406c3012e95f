package main_test

import (
	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("OpenAPI Document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Validate(loader.Context)).To(Succeed())
	})

	It("documents every mounted resource", func() {
		for _, path := range []string{
			"/auth/login",
			"/auth/logout",
			"/users",
			"/users/me",
			"/users/active",
			"/users/{id}",
			"/users/{id}/password",
			"/hashtags",
			"/hashtags/active",
			"/hashtags/{id}",
			"/case-files",
			"/case-files/{id}",
			"/case-files/{id}/entries",
			"/entries",
			"/entries/{id}",
			"/entries/{id}/hashtags",
			"/entries/{id}/hashtags/{hashtagID}",
			"/entries/{id}/photo",
			"/entry-hashtags",
			"/entry-hashtags/{id}",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})

	It("marks the attach operation as returning both 200 and 201", func() {
		item := doc.Paths.Find("/entries/{id}/hashtags")
		Expect(item).NotTo(BeNil())
		Expect(item.Post).NotTo(BeNil())
		Expect(item.Post.Responses.Status(200)).NotTo(BeNil())
		Expect(item.Post.Responses.Status(201)).NotTo(BeNil())
	})
})
