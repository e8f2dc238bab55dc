package camt

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

// Indicator values for the CdtDbtInd element.
const (
	CreditIndicator = "CRDT"
	DebitIndicator  = "DBIT"
)

// Statement is the subset of a camt.053 bank statement the importer uses
type Statement struct {
	AccountIBAN string
	Currency    string
	Entries     []Entry
}

// Entry is one booked movement from a bank statement
type Entry struct {
	Reference   string
	Description string
	Merchant    string
	Amount      decimal.Decimal
	Currency    string
	CreditDebit string
	BookingDate time.Time
}

// IsCredit reports whether the entry moves money into the account
func (e Entry) IsCredit() bool {
	return e.CreditDebit == CreditIndicator
}

// Parse extracts the statement and its entries from camt.053 XML
func Parse(data []byte) (*Statement, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %v", err)
	}

	stmtElement := doc.FindElement("//BkToCstmrStmt/Stmt")
	if stmtElement == nil {
		return nil, fmt.Errorf("no statement found in document")
	}

	stmt := &Statement{}
	if iban := stmtElement.FindElement("./Acct/Id/IBAN"); iban != nil {
		stmt.AccountIBAN = iban.Text()
	}
	if ccy := stmtElement.FindElement("./Acct/Ccy"); ccy != nil {
		stmt.Currency = ccy.Text()
	}

	for _, ntry := range stmtElement.FindElements("./Ntry") {
		entry, err := parseEntry(ntry)
		if err != nil {
			return nil, err
		}
		stmt.Entries = append(stmt.Entries, entry)
	}
	return stmt, nil
}

func parseEntry(ntry *etree.Element) (Entry, error) {
	entry := Entry{}

	amtElement := ntry.FindElement("./Amt")
	if amtElement == nil {
		return entry, fmt.Errorf("entry has no amount")
	}
	amount, err := decimal.NewFromString(amtElement.Text())
	if err != nil {
		return entry, fmt.Errorf("failed to parse entry amount %q: %v", amtElement.Text(), err)
	}
	entry.Amount = amount
	entry.Currency = amtElement.SelectAttrValue("Ccy", "")

	indElement := ntry.FindElement("./CdtDbtInd")
	if indElement == nil {
		return entry, fmt.Errorf("entry has no credit debit indicator")
	}
	entry.CreditDebit = indElement.Text()
	if entry.CreditDebit != CreditIndicator && entry.CreditDebit != DebitIndicator {
		return entry, fmt.Errorf("unknown credit debit indicator %q", entry.CreditDebit)
	}

	bookingDate, err := parseBookingDate(ntry)
	if err != nil {
		return entry, err
	}
	entry.BookingDate = bookingDate

	if ref := ntry.FindElement("./NtryRef"); ref != nil {
		entry.Reference = ref.Text()
	} else if ref := ntry.FindElement(".//Refs/EndToEndId"); ref != nil {
		entry.Reference = ref.Text()
	}

	if info := ntry.FindElement(".//RmtInf/Ustrd"); info != nil {
		entry.Description = info.Text()
	} else if info := ntry.FindElement("./AddtlNtryInf"); info != nil {
		entry.Description = info.Text()
	} else {
		entry.Description = "Statement entry"
	}

	// The counterparty is the creditor for outgoing money and the debtor
	// for incoming money.
	party := ".//RltdPties/Cdtr/Nm"
	if entry.IsCredit() {
		party = ".//RltdPties/Dbtr/Nm"
	}
	if name := ntry.FindElement(party); name != nil {
		entry.Merchant = name.Text()
	}

	return entry, nil
}

func parseBookingDate(ntry *etree.Element) (time.Time, error) {
	if dt := ntry.FindElement("./BookgDt/Dt"); dt != nil {
		parsed, err := time.Parse("2006-01-02", dt.Text())
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse booking date %q: %v", dt.Text(), err)
		}
		return parsed, nil
	}
	if dtTm := ntry.FindElement("./BookgDt/DtTm"); dtTm != nil {
		parsed, err := time.Parse(time.RFC3339, dtTm.Text())
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse booking time %q: %v", dtTm.Text(), err)
		}
		return parsed, nil
	}
	return time.Time{}, fmt.Errorf("entry has no booking date")
}
