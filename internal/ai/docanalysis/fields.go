package docanalysis

import (
	"fmt"
	"strings"
)

// Field is one attribute the model is asked to extract.
type Field struct {
	Key  string
	Hint string
}

// Fields is the fixed extraction schema. Order is preserved in the instruction.
var Fields = []Field{
	{"document_type", "kind of document (e.g. payslip, tax certificate, invoice, receipt, balance sheet, HR letter, contract, minutes)"},
	{"author", "full name of the person who drafted the document, if applicable"},
	{"sender", "who sent the document"},
	{"recipient", "who the document is addressed to"},
	{"issue_date", "date the document was issued"},
	{"accrual_date", "date the document refers to"},
	{"document_number", "identifying number (invoice number, protocol number, ...)"},
	{"document_version", "version or revision, if present"},
	{"subject", "subject or title"},
	{"category", "broad category (Financial, HR, Legal, Administrative)"},
	{"employee", "full name of the employee, if applicable"},
	{"tax_code", "employee tax code, if present"},
	{"reference_company", "company the document concerns, other than the sender; may be absent"},
	{"total_amount", "total amount or economic value, as a number, if present"},
	{"summary", "short summary of the main content (max 200 characters)"},
	{"page_count", "total number of pages"},
}

// DocumentTypeKey names the field copied onto the document record.
const DocumentTypeKey = "document_type"

func instruction() string {
	var b strings.Builder
	b.WriteString("Analyze this document/image and extract the following data as valid JSON:\n")
	for _, f := range Fields {
		fmt.Fprintf(&b, "- %s: %s\n", f.Key, f.Hint)
	}
	b.WriteString("Reply ONLY with the JSON, with no additional text.\n")
	b.WriteString("If a field is absent or not applicable, use null.")
	return b.String()
}

var extractionInstruction = instruction()
