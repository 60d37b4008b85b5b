package receipt_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/zombor/receipt-table/internal/itemize"
	"github.com/zombor/receipt-table/internal/receipt"
)

// stubScanner returns canned text for every image
type stubScanner struct {
	text string
}

func (s *stubScanner) RecognizeText(imageData []byte, contentType string) (string, error) {
	return s.text, nil
}

func (s *stubScanner) Close() error {
	return nil
}

var _ = Describe("Integration", func() {
	const receiptText = "KONZUM d.d.\nMLIJEKO SVJEŽE 1L\nČOKOLADA MLIJEČNA\nKRUH PŠENIČNI\n1.29\nI.99\n0.89\n4.17\nUKUPNO\n4.17"

	var (
		db       receipt.DB
		store    receipt.Storage
		service  *receipt.Service
		server   *receipt.Server
		ghServer *ghttp.Server
	)

	BeforeEach(func() {
		tempDir := GinkgoT().TempDir()

		var err error
		db, err = receipt.NewBoltDB(filepath.Join(tempDir, "test.db"))
		Expect(err).NotTo(HaveOccurred())

		store, err = receipt.NewLocalStorage(filepath.Join(tempDir, "receipts"))
		Expect(err).NotTo(HaveOccurred())

		service = receipt.NewService(db, &stubScanner{text: receiptText}, store, itemize.Strict)
		server = receipt.NewServer(service, receipt.BasicAuth{})
		ghServer = ghttp.NewServer()
	})

	AfterEach(func() {
		ghServer.Close()
		db.Close()
	})

	It("should upload a receipt, itemize it and serve it back", func() {
		ghServer.AppendHandlers(
			server.ServeHTTP, // upload
			server.ServeHTTP, // text
			server.ServeHTTP, // delete
		)

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "racun.pdf")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write([]byte("%PDF-1.4 fake"))
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		resp, err := http.Post(ghServer.URL()+"/api/receipts", writer.FormDataContentType(), body)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))

		var created receipt.Receipt
		respBody, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(respBody, &created)).To(Succeed())

		By("itemizing the recognized text")
		table := created.Table
		Expect(table.Names).To(HaveLen(3))
		Expect(table.Rows).To(HaveLen(3))
		Expect(table.Rows[0].Name.Content).To(Equal("MLIJEKO SVJEŽE 1L"))
		Expect(table.Rows[1].Price.Token).To(Equal("0.99"))
		Expect(table.Rows[1].Price.Repaired).To(BeTrue())
		Expect(table.ComputedTotal).To(Equal(317))
		Expect(table.DetectedTotal).To(HaveValue(Equal(417)))
		Expect(table.Reconciled()).To(BeFalse())

		By("persisting the receipt and its file")
		saved, err := db.GetReceipt(created.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(saved.Boundary).To(Equal("strict"))
		_, err = store.Get(saved.Filename)
		Expect(err).NotTo(HaveOccurred())

		By("serving the raw text")
		textResp, err := http.Get(ghServer.URL() + "/api/receipts/" + created.ID + "/text")
		Expect(err).NotTo(HaveOccurred())
		defer textResp.Body.Close()
		text, err := io.ReadAll(textResp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(text)).To(Equal(receiptText))

		By("deleting the receipt")
		req, err := http.NewRequest("DELETE", ghServer.URL()+"/api/receipts/"+created.ID, nil)
		Expect(err).NotTo(HaveOccurred())
		delResp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		delResp.Body.Close()
		Expect(delResp.StatusCode).To(Equal(http.StatusNoContent))

		_, err = db.GetReceipt(created.ID)
		Expect(err).To(MatchError(receipt.ErrNotFound))
		_, err = store.Get(saved.Filename)
		Expect(err).To(HaveOccurred())
	})

	It("should itemize pasted text without storing it", func() {
		ghServer.AppendHandlers(server.ServeHTTP)

		resp, err := http.Post(ghServer.URL()+"/api/itemize", "text/plain", strings.NewReader("A B\nC D\n2.50\n1.80\n4.30"))
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var table itemize.Table
		respBody, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(respBody, &table)).To(Succeed())
		Expect(table.ComputedTotal).To(Equal(430))
		Expect(table.DetectedTotal).To(BeNil())
		Expect(table.Reconciled()).To(BeFalse())

		receipts, err := db.ListReceipts()
		Expect(err).NotTo(HaveOccurred())
		Expect(receipts).To(BeEmpty())
	})
})
