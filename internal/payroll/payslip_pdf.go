package payroll

import (
	"bytes"
	"fmt"
	"strings"
)

// renderPayslipPDF produces a single-page text payslip as a minimal
// PDF 1.4 document. No external renderer; the layout is a plain
// monospace listing, which is all a payslip needs.
func renderPayslipPDF(slip PayslipResponse) ([]byte, error) {
	lines := payslipLines(slip)

	var text strings.Builder
	text.WriteString("BT\n/F1 11 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		if i > 0 {
			text.WriteString("T* ")
		}
		fmt.Fprintf(&text, "(%s) Tj\n", escapePDFText(line))
	}
	text.WriteString("ET")

	stream := text.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Courier >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var doc bytes.Buffer
	doc.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects))
	for _, obj := range objects {
		offsets = append(offsets, doc.Len())
		doc.WriteString(obj)
	}

	xrefStart := doc.Len()
	fmt.Fprintf(&doc, "xref\n0 %d\n", len(objects)+1)
	doc.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&doc, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&doc, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(objects)+1, xrefStart)

	return doc.Bytes(), nil
}

func payslipLines(slip PayslipResponse) []string {
	return []string{
		fmt.Sprintf("Payslip - %s", slip.Period),
		fmt.Sprintf("%s (%s)", slip.FullName, slip.EmpCode),
		"",
		fmt.Sprintf("Pay days: %.1f of %d (LOP %.1f)",
			slip.Days.PayDays, slip.Days.TotalDays, slip.Days.LOPDays),
		"",
		fmt.Sprintf("Basic earned        %12.2f", slip.Earnings.BasicEarned),
		fmt.Sprintf("HRA earned          %12.2f", slip.Earnings.HRAEarned),
		fmt.Sprintf("Other allowance     %12.2f", slip.Earnings.OtherEarned),
		fmt.Sprintf("Total earning       %12.2f", slip.Earnings.TotalEarning),
		"",
		fmt.Sprintf("PF contribution     %12.2f", slip.Deductions.PFContribution),
		fmt.Sprintf("ESI                 %12.2f", slip.Deductions.ESIEarned),
		fmt.Sprintf("Professional tax    %12.2f", slip.Deductions.ProfessionalTax),
		fmt.Sprintf("Income tax (TDS)    %12.2f", slip.Deductions.IncomeTax),
		fmt.Sprintf("Total deduction     %12.2f", slip.Deductions.TotalDeduction),
		"",
		fmt.Sprintf("Net pay             %12.2f", slip.NetPay),
		slip.NetPayInWords,
	}
}

func escapePDFText(v string) string {
	r := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return r.Replace(v)
}
