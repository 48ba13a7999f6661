package mapper

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ones = []string{
		"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
		"Seventeen", "Eighteen", "Nineteen",
	}
	tens = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

// AmountInWords spells an amount in the Indian numbering system, for example
// "One Lakh Twenty Thousand Rupees and Fifty Paise Only".
func AmountInWords(amount float64) string {
	d := decimal.NewFromFloat(amount).Abs().Round(2)
	rupees := d.IntPart()
	paise := d.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).IntPart()

	var b strings.Builder
	if rupees == 0 {
		b.WriteString("Zero")
	} else {
		b.WriteString(integerWords(rupees))
	}
	b.WriteString(" Rupees")
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(integerWords(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

func integerWords(n int64) string {
	var parts []string
	if crore := n / 10000000; crore > 0 {
		parts = append(parts, integerWords(crore), "Crore")
	}
	if lakh := n / 100000 % 100; lakh > 0 {
		parts = append(parts, belowHundred(lakh), "Lakh")
	}
	if thousand := n / 1000 % 100; thousand > 0 {
		parts = append(parts, belowHundred(thousand), "Thousand")
	}
	if hundred := n / 100 % 10; hundred > 0 {
		parts = append(parts, ones[hundred], "Hundred")
	}
	if rest := n % 100; rest > 0 {
		parts = append(parts, belowHundred(rest))
	}
	return strings.Join(parts, " ")
}

func belowHundred(n int64) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + " " + ones[n%10]
}
