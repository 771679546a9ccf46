package suites

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/fixspec/packages/assertions"
	"github.com/abdul-hamid-achik/fixspec/packages/core/suite"
	"github.com/abdul-hamid-achik/fixspec/packages/core/testctx"
	"github.com/abdul-hamid-achik/fixspec/packages/db"
)

const schema = `
CREATE TABLE products (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE orders (id INTEGER PRIMARY KEY, product TEXT NOT NULL, processor TEXT NOT NULL);
CREATE TABLE records (id INTEGER PRIMARY KEY AUTOINCREMENT, a INTEGER, b INTEGER);
`

// PaymentProcessor charges orders.
type PaymentProcessor struct {
	Name     string
	TestMode bool
}

// OrderManager places orders through a processor.
type OrderManager struct {
	db        *db.Client
	processor *PaymentProcessor
}

func (m *OrderManager) PlaceOrder(product string) error {
	if !m.processor.TestMode {
		return fmt.Errorf("processor %s is live", m.processor.Name)
	}
	_, err := m.db.Exec(`INSERT INTO orders (product, processor) VALUES (?, ?)`, product, m.processor.Name)
	return err
}

// RecordsTest is a group whose value is built from the file's arguments.
type RecordsTest struct {
	db *db.Client
}

func NewRecordsTest(c *db.Client) *RecordsTest {
	return &RecordsTest{db: c}
}

func (r *RecordsTest) Setup() error {
	_, err := r.db.Exec(`DELETE FROM records`)
	return err
}

func (r *RecordsTest) insert(a, b int) int64 {
	id, err := r.db.Value(`INSERT INTO records (a, b) VALUES (?, ?) RETURNING id`, a, b)
	assertions.Nil(err)
	return id.(int64)
}

func (r *RecordsTest) count() int64 {
	n, err := r.db.Value(`SELECT COUNT(*) FROM records`)
	assertions.Nil(err)
	return n.(int64)
}

func (r *RecordsTest) TestInsertRecord() {
	r.insert(1, 2)
	assertions.Equal(int64(1), r.count())
}

func (r *RecordsTest) TestDeleteRecord() {
	id := r.insert(1, 2)
	assertions.Equal(int64(1), r.count())

	_, err := r.db.Exec(`DELETE FROM records WHERE id = ?`, id)
	assertions.Nil(err)
	assertions.Equal(int64(0), r.count())
}

func openFileDatabase(ctx *testctx.Context) (*db.Client, error) {
	dir, err := os.MkdirTemp("", "fixspec-demo-")
	if err != nil {
		return nil, err
	}
	ctx.Teardown(func() {
		if err := os.RemoveAll(dir); err != nil {
			panic(err)
		}
	})
	return db.NewClient("sqlite://" + filepath.Join(dir, "demo.db"))
}

func processor(name string) func(*db.Client) []any {
	return func(c *db.Client) []any {
		return []any{c, &PaymentProcessor{Name: name, TestMode: true}}
	}
}

// Database runs the fixture examples against an in-memory and an on-disk
// sqlite database.
func Database() *suite.Node {
	return suite.Dir("test-fixtures",
		suite.Func("setup_run_memory", func() (*db.Client, error) {
			return db.NewClient("sqlite::memory:")
		}),
		suite.Func("teardown_run_memory", func(c *db.Client) error {
			return c.Close()
		}),
		suite.Func("setup_run_file", openFileDatabase),
		suite.Func("teardown_run_file", func(c *db.Client) error {
			return c.Close()
		}),
		suite.Func("setup", func(c *db.Client) (*db.Client, error) {
			_, err := c.Exec(schema)
			return c, err
		}),
		suite.Func("teardown", func(c *db.Client) error {
			_, err := c.Exec(`DROP TABLE products; DROP TABLE orders; DROP TABLE records;`)
			return err
		}),

		suite.File("test_orders.go", `example\orders`,
			suite.Func("setup_file", func(c *db.Client) error {
				_, err := c.Exec(`INSERT INTO products (name) VALUES ('widget'), ('gadget')`)
				return err
			}),
			suite.Func("teardown_file", func(c *db.Client) error {
				_, err := c.Exec(`DELETE FROM products`)
				return err
			}),
			suite.Func("setup_run_processor_a", processor("a")),
			suite.Func("setup_run_processor_b", processor("b")),
			suite.Func("setup", func(c *db.Client, p *PaymentProcessor) (*OrderManager, error) {
				_, err := c.Exec(`DELETE FROM orders`)
				return &OrderManager{db: c, processor: p}, err
			}),
			suite.Func("test", func(m *OrderManager) {
				assertions.Nil(m.PlaceOrder("widget"), "order was not placed")

				n, err := m.db.Value(`SELECT COUNT(*) FROM orders WHERE processor = ?`, m.processor.Name)
				assertions.Nil(err)
				assertions.Equal(int64(1), n)
			}),
		),

		suite.File("test_records.go", `example\records`,
			suite.Group("TestDatabase", NewRecordsTest),
		),
	)
}
