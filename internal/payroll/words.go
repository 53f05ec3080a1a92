package payroll

import "strings"

var wordsBelowTwenty = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var wordsTens = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy",
	"Eighty", "Ninety",
}

// AmountInWords renders a rounded rupee amount in the Indian numbering
// system (Crore/Lakh/Thousand/Hundred) with the fixed payslip suffix.
func AmountInWords(amount int64) string {
	if amount <= 0 {
		return "Zero Rupees Only"
	}

	var parts []string
	appendGroup := func(n int64, label string) {
		if n == 0 {
			return
		}
		parts = append(parts, twoDigitWords(n))
		if label != "" {
			parts = append(parts, label)
		}
	}

	appendGroup(amount/1e7, "Crore")
	amount %= 1e7
	appendGroup(amount/1e5, "Lakh")
	amount %= 1e5
	appendGroup(amount/1e3, "Thousand")
	amount %= 1e3
	appendGroup(amount/100, "Hundred")
	appendGroup(amount%100, "")

	parts = append(parts, "Rupees Only")
	return strings.Join(parts, " ")
}

// twoDigitWords converts 1..99 to words.
func twoDigitWords(n int64) string {
	if n < 20 {
		return wordsBelowTwenty[n]
	}
	word := wordsTens[n/10]
	if n%10 != 0 {
		word += " " + wordsBelowTwenty[n%10]
	}
	return word
}
