package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/utils/textenc"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// importColumns maps accepted header spellings to account fields.
var importColumns = map[string]string{
	"name": "name", "unvan": "name", "ad": "name",
	"short_name": "short_name", "kisa_ad": "short_name",
	"kind": "kind", "type": "kind", "customer_type": "kind", "tip": "kind",
	"phone": "phone", "telefon": "phone",
	"email": "email", "e-posta": "email", "eposta": "email",
	"address": "address", "adres": "address",
	"city": "city", "sehir": "city", "şehir": "city",
	"tax_office": "tax_office", "vergi_dairesi": "tax_office",
	"tax_number": "tax_number", "vergi_no": "tax_number",
	"currency": "currency", "para_birimi": "currency",
	"credit_limit": "credit_limit", "kredi_limiti": "credit_limit",
	"payment_term": "payment_term", "vade": "payment_term",
	"balance": "balance", "opening_balance": "balance", "bakiye": "balance",
	"notes": "notes", "notlar": "notes",
}

// ImportAccounts reads a delimited account list, detecting its encoding and
// separator. Invalid rows are skipped and reported; valid rows are created in
// one database transaction.
func (s *accountService) ImportAccounts(ctx context.Context, r io.Reader, actorID string) (*domain.ImportResult, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}

	utf8Reader, encodingName, err := textenc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable upload: %v", apperrors.ErrValidation, err)
	}
	data, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable upload: %v", apperrors.ErrValidation, err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file is empty", apperrors.ErrValidation)
		}
		return nil, fmt.Errorf("%w: invalid header: %v", apperrors.ErrValidation, err)
	}
	columns := make([]string, len(header))
	hasName := false
	for i, h := range header {
		columns[i] = importColumns[strings.ToLower(strings.TrimSpace(h))]
		hasName = hasName || columns[i] == "name"
	}
	if !hasName {
		return nil, fmt.Errorf("%w: a name column is required", apperrors.ErrValidation)
	}

	result := &domain.ImportResult{Encoding: encodingName, Errors: []string{}}
	type pending struct {
		account domain.Account
		opening decimal.Decimal
	}
	var rows []pending

	line := 1
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		line++
		if readErr != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, readErr))
			continue
		}
		if isBlankRecord(record) {
			continue
		}

		account, rowErr := accountFromRecord(columns, record)
		if rowErr == nil {
			account, opening := s.prepareNew(account, actorID)
			if rowErr = account.Validate(); rowErr == nil {
				rows = append(rows, pending{account: account, opening: opening})
				continue
			}
		}
		result.Skipped++
		result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, rowErr))
	}

	if len(rows) > 0 {
		err = s.inTx(ctx, s.txManager, func(tx pgx.Tx) error {
			for _, p := range rows {
				if _, createErr := s.createInTx(ctx, tx, p.account, p.opening, actorID); createErr != nil {
					return fmt.Errorf("account %q: %w", p.account.Name, createErr)
				}
			}
			return nil
		})
		if err != nil {
			s.LogError(ctx, err, "Failed to import accounts", slog.Int("rows", len(rows)))
			return nil, err
		}
		result.Imported = len(rows)
	}

	s.LogInfo(ctx, "Accounts imported",
		slog.String("encoding", encodingName),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped))
	return result, nil
}

// sniffDelimiter picks ';' or ',' from the header line. Spreadsheet exports
// in comma-decimal locales use ';'.
func sniffDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	if bytes.Count(first, []byte{';'}) > bytes.Count(first, []byte{','}) {
		return ';'
	}
	return ','
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func accountFromRecord(columns []string, record []string) (domain.Account, error) {
	account := domain.Account{Kind: domain.AccountKindCustomer}
	for i, raw := range record {
		if i >= len(columns) || columns[i] == "" {
			continue
		}
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		switch columns[i] {
		case "name":
			account.Name = value
		case "short_name":
			account.ShortName = value
		case "kind":
			kind, err := parseImportKind(value)
			if err != nil {
				return domain.Account{}, err
			}
			account.Kind = kind
		case "phone":
			account.Phone = value
		case "email":
			account.Email = value
		case "address":
			account.Address = value
		case "city":
			account.City = value
		case "tax_office":
			account.TaxOffice = value
		case "tax_number":
			account.TaxNumber = value
		case "currency":
			account.Currency = strings.ToUpper(value)
		case "notes":
			account.Notes = value
		case "credit_limit":
			v, err := parseImportAmount(value)
			if err != nil {
				return domain.Account{}, fmt.Errorf("credit limit: %w", err)
			}
			account.CreditLimit = v
		case "balance":
			v, err := parseImportAmount(value)
			if err != nil {
				return domain.Account{}, fmt.Errorf("balance: %w", err)
			}
			account.Balance = v
		case "payment_term":
			n, err := strconv.Atoi(value)
			if err != nil {
				return domain.Account{}, fmt.Errorf("%w: payment term %q is not a number", apperrors.ErrValidation, value)
			}
			account.PaymentTerm = n
		}
	}
	return account, nil
}

// parseImportKind accepts the stored kinds plus "supplier".
func parseImportKind(raw string) (domain.AccountKind, error) {
	if strings.EqualFold(strings.TrimSpace(raw), "supplier") {
		return domain.AccountKindVendor, nil
	}
	return domain.ParseAccountKind(raw)
}

// parseImportAmount reads "1250.50", "1.250,50" and "1250,50".
func parseImportAmount(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not an amount", apperrors.ErrValidation, raw)
	}
	return v, nil
}
