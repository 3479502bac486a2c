package model

// Table groups of the shared schema, in dependency order.
var (
	CoreTables    = []Entity{&Customer{}, &Product{}, &Employee{}}
	SalesTables   = []Entity{&PaymentMethod{}, &Receipt{}, &ReceiptItem{}}
	PayrollTables = []Entity{&TimeEntry{}, &Paycheck{}}
)

// TableNames lists every table both storage backends must create.
func TableNames() []string {
	var names []string
	for _, group := range [][]Entity{CoreTables, SalesTables, PayrollTables} {
		for _, t := range group {
			names = append(names, t.TableName())
		}
	}
	return names
}
