package invoice

const (
	DefaultNotes = "Thanks for your business! We would appreciate timely payment of the total amount reflected in here. Please feel free to contact us for any questions or concerns."

	TemplateItemDescription = "Invoice Item"
)

const (
	keyBillTo        = "Bill To"
	keyInvoiceNumber = "Invoice Number"
	keyStartDate     = "Start Date"
	keyEndDate       = "End Date"
	keyDueDate       = "Due Date"
	keyTotalSales    = "Total Sales"
	keyNetPay        = "Net Pay"
	keyNetSalesTips  = "Net Sales/Tips"
	keyInflowFees    = "Inflow/VV FEES"
)
