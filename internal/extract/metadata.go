package extract

import (
	"regexp"
	"strings"
)

// Label variants in lookup order. The first label that yields a usable
// token wins; later variants are only consulted when earlier ones miss.
var (
	invoiceNumberLabels = []string{"Rg.-Nr.", "Rechnungsnummer", "Rechnung Nr.", "Invoice #"}
	customerLabels      = []string{"Kunden-Nummer", "Kundennummer", "Debitoren", "Personenkonto"}
	dateLabels          = []string{"Rechnungsdatum", "Rg.-Datum", "Datum"}
)

const snippetLen = 60

var (
	tokenPattern       = regexp.MustCompile(`\b([A-Za-z0-9\-\/\.]{3,})\b`)
	dateTokenPattern   = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{2,4}$`)
	germanDatePattern  = regexp.MustCompile(`\b(\d{1,2}\.\d{1,2}\.\d{4})\b`)
	digitGroupPattern  = regexp.MustCompile(`\d[\d ]*\d`)
	familyNamePattern  = regexp.MustCompile(`(?m)^\s*Name[ \t:]+([^\n]+?)(?:[ \t]+Geb\.-Datum.*)?$`)
	givenNamePattern   = regexp.MustCompile(`(?m)^\s*Vorname[ \t:]+([^\n]+?)\s*$`)
	accountCodePattern = regexp.MustCompile(`\b(\d{5}\/\d{4})\s+(\d+)\b`)
	courseLeadPattern  = regexp.MustCompile(`^\d{2}\/\d{2}\b`)
)

const studentSectionMarker = "Durchführung einer Lernförderung für:"

// ExtractMetadata locates the header fields of a page. Structured table
// cells take precedence over text-regex search; text search is the
// fallback for each field independently.
func ExtractMetadata(page RawPage) InvoiceMetadata {
	var meta InvoiceMetadata

	number, suffix := findInvoiceNumber(page)
	meta.InvoiceNumber = number
	meta.InvoiceSuffix = suffix
	meta.InvoiceDate = findInvoiceDate(page)
	meta.CustomerNumber = findCustomerNumber(page)
	meta.RecipientName = findRecipientName(page.Text)
	meta.StudentName, meta.School = findStudentInfo(page.Text)

	if m := accountCodePattern.FindStringSubmatch(page.Text); m != nil {
		meta.AccountCode = m[1] + " " + m[2]
	}

	return meta
}

// findInvoiceNumber scans the label chain, then the snippet after the
// label for the first alphanumeric token that does not look like a
// date. A '/' in the token splits it into number and suffix.
func findInvoiceNumber(page RawPage) (string, string) {
	if cell := findLabeledCell(page.Tables, invoiceNumberLabels); cell != "" {
		return splitInvoiceToken(cell)
	}

	for _, label := range invoiceNumberLabels {
		idx := strings.Index(page.Text, label)
		if idx < 0 {
			continue
		}
		snippet := page.Text[idx+len(label):]
		if len(snippet) > snippetLen {
			snippet = snippet[:snippetLen]
		}
		for _, m := range tokenPattern.FindAllString(snippet, -1) {
			if dateTokenPattern.MatchString(m) {
				continue
			}
			return splitInvoiceToken(m)
		}
	}
	return "", ""
}

func splitInvoiceToken(token string) (string, string) {
	token = strings.Trim(token, " .")
	if i := strings.Index(token, "/"); i > 0 {
		return token[:i], token[i+1:]
	}
	return token, ""
}

func findInvoiceDate(page RawPage) string {
	if cell := findLabeledCell(page.Tables, dateLabels); cell != "" {
		if m := germanDatePattern.FindString(cell); m != "" {
			return m
		}
	}

	for _, label := range dateLabels {
		idx := strings.Index(page.Text, label)
		if idx < 0 {
			continue
		}
		snippet := page.Text[idx+len(label):]
		if len(snippet) > snippetLen {
			snippet = snippet[:snippetLen]
		}
		if m := germanDatePattern.FindString(snippet); m != "" {
			return m
		}
	}

	// Last resort: first printed date anywhere on the page
	return germanDatePattern.FindString(page.Text)
}

// findCustomerNumber tries the customer-number label chain and strips
// internal whitespace from the digit group ("123 456 789" -> "123456789").
func findCustomerNumber(page RawPage) string {
	if cell := findLabeledCell(page.Tables, customerLabels); cell != "" {
		if n := firstDigitGroup(cell); n != "" {
			return n
		}
	}

	for _, label := range customerLabels {
		idx := strings.Index(page.Text, label)
		if idx < 0 {
			continue
		}
		snippet := page.Text[idx+len(label):]
		if len(snippet) > snippetLen {
			snippet = snippet[:snippetLen]
		}
		if n := firstDigitGroup(snippet); n != "" {
			return n
		}
	}
	return ""
}

// firstDigitGroup returns the first whitespace-separated digit group of
// at least 5 digits, with internal spaces removed. The minimum length
// keeps stray day/year fragments out.
func firstDigitGroup(s string) string {
	for _, m := range digitGroupPattern.FindAllString(s, -1) {
		n := strings.ReplaceAll(m, " ", "")
		if len(n) >= 5 {
			return n
		}
	}
	return ""
}

// findRecipientName captures the separate Vorname and Name lines and
// composes them given-name first.
func findRecipientName(text string) string {
	var given, family string
	if m := givenNamePattern.FindStringSubmatch(text); m != nil {
		given = strings.TrimSpace(m[1])
	}
	if m := familyNamePattern.FindStringSubmatch(text); m != nil {
		family = strings.TrimSpace(m[1])
	}
	switch {
	case given != "" && family != "":
		return given + " " + family
	case family != "":
		return family
	default:
		return given
	}
}

// findStudentInfo reads the two lines after the Lernförderung section
// marker: the student name, then the school unless that line already
// looks like a course line.
func findStudentInfo(text string) (string, string) {
	idx := strings.Index(text, studentSectionMarker)
	if idx < 0 {
		return "", ""
	}

	var lines []string
	for _, line := range strings.Split(text[idx+len(studentSectionMarker):], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == 2 {
			break
		}
	}

	var student, school string
	if len(lines) > 0 {
		student = lines[0]
	}
	if len(lines) > 1 && !courseLeadPattern.MatchString(lines[1]) {
		school = lines[1]
	}
	return student, school
}

// findLabeledCell scans all tables for a row containing one of the
// labels and returns the value cell: the remainder of the label cell if
// non-empty, else the next non-empty cell in the row.
func findLabeledCell(tables [][][]string, labels []string) string {
	for _, label := range labels {
		for _, table := range tables {
			for _, row := range table {
				for i, cell := range row {
					idx := strings.Index(cell, label)
					if idx < 0 {
						continue
					}
					rest := strings.TrimSpace(strings.TrimLeft(cell[idx+len(label):], " :"))
					if rest != "" {
						return rest
					}
					for _, next := range row[i+1:] {
						if v := strings.TrimSpace(next); v != "" {
							return v
						}
					}
				}
			}
		}
	}
	return ""
}
