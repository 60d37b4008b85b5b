package receipt

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/receipt-table/internal/itemize"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveReceipt", func() {
		var (
			receipt *Receipt
			err     error
		)

		BeforeEach(func() {
			receipt = &Receipt{
				ID:          "test-id",
				Filename:    "test.jpg",
				ContentType: "image/jpeg",
				Text:        sampleText,
				Boundary:    "strict",
				Table:       itemize.Itemize(sampleText, itemize.WithBoundary(itemize.Strict)),
				CreatedAt:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				UpdatedAt:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			}
		})

		JustBeforeEach(func() {
			err = db.SaveReceipt(receipt)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should save the receipt to the database", func() {
				saved, getErr := db.GetReceipt("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.ID).To(Equal("test-id"))
				Expect(saved.Text).To(Equal(sampleText))
			})

			It("should keep the itemized table", func() {
				saved, getErr := db.GetReceipt("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Table.ComputedTotal).To(Equal(279))
				Expect(saved.Table.DetectedTotal).To(HaveValue(Equal(400)))
				Expect(saved.Table.Rows).To(HaveLen(2))
				Expect(saved.Table.Rows[0].Name.Content).To(Equal("KRUH BIJELI"))
				Expect(saved.Table.Rows[0].Price.Token).To(Equal("0.99"))
				Expect(saved.Table.Rows[0].Price.Repaired).To(BeTrue())
			})
		})

		When("the receipt already exists", func() {
			BeforeEach(func() {
				Expect(db.SaveReceipt(&Receipt{ID: "test-id", Text: "old"})).To(Succeed())
			})

			It("should replace it", func() {
				saved, getErr := db.GetReceipt("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Text).To(Equal(sampleText))
			})
		})
	})

	Describe("GetReceipt", func() {
		var (
			receiptID string
			receipt   *Receipt
			err       error
		)

		JustBeforeEach(func() {
			receipt, err = db.GetReceipt(receiptID)
		})

		When("receipt exists", func() {
			BeforeEach(func() {
				receiptID = "existing-id"
				Expect(db.SaveReceipt(&Receipt{ID: receiptID, Filename: "x.png"})).To(Succeed())
			})

			It("should return the receipt", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(receipt.Filename).To(Equal("x.png"))
			})
		})

		When("receipt does not exist", func() {
			BeforeEach(func() {
				receiptID = "nonexistent"
			})

			It("should return ErrNotFound", func() {
				Expect(err).To(MatchError(ErrNotFound))
				Expect(receipt).To(BeNil())
			})
		})
	})

	Describe("ListReceipts", func() {
		var (
			receipts []*Receipt
			err      error
		)

		JustBeforeEach(func() {
			receipts, err = db.ListReceipts()
		})

		When("the database is empty", func() {
			It("should return an empty list", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(receipts).NotTo(BeNil())
				Expect(receipts).To(BeEmpty())
			})
		})

		When("receipts exist", func() {
			BeforeEach(func() {
				Expect(db.SaveReceipt(&Receipt{ID: "a", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})).To(Succeed())
				Expect(db.SaveReceipt(&Receipt{ID: "b", CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})).To(Succeed())
				Expect(db.SaveReceipt(&Receipt{ID: "c", CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)})).To(Succeed())
			})

			It("should return them newest first", func() {
				Expect(err).NotTo(HaveOccurred())
				ids := make([]string, 0, len(receipts))
				for _, r := range receipts {
					ids = append(ids, r.ID)
				}
				Expect(ids).To(Equal([]string{"b", "c", "a"}))
			})
		})
	})

	Describe("DeleteReceipt", func() {
		var err error

		When("receipt exists", func() {
			BeforeEach(func() {
				Expect(db.SaveReceipt(&Receipt{ID: "to-delete"})).To(Succeed())
			})

			JustBeforeEach(func() {
				err = db.DeleteReceipt("to-delete")
			})

			It("should remove the receipt", func() {
				Expect(err).NotTo(HaveOccurred())
				_, getErr := db.GetReceipt("to-delete")
				Expect(getErr).To(MatchError(ErrNotFound))
			})
		})

		When("receipt does not exist", func() {
			JustBeforeEach(func() {
				err = db.DeleteReceipt("nonexistent")
			})

			It("should return ErrNotFound", func() {
				Expect(err).To(MatchError(ErrNotFound))
			})
		})
	})

	Describe("reopening the database", func() {
		BeforeEach(func() {
			Expect(db.SaveReceipt(&Receipt{ID: "persisted", Text: "A B\n1.00"})).To(Succeed())
			Expect(db.Close()).To(Succeed())

			var err error
			db, err = NewBoltDB(dbPath)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should keep saved receipts", func() {
			saved, err := db.GetReceipt("persisted")
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.Text).To(Equal("A B\n1.00"))
		})
	})
})
