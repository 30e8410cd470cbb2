package message

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ExportHeader lists the ledger export columns in row order.
var ExportHeader = []string{"id", "created_at", "customer_name", "total", "status", "items", "notes"}

// Formatter renders order messages for messaging-app handoff and delimited
// rows for the ledger export. Currency amounts are whole units rendered with
// locale thousands separators and no decimal point.
type Formatter struct {
	printer   *message.Printer
	symbol    string
	delimiter string
	phone     string
}

// NewFormatter creates a formatter for the given currency symbol, BCP 47
// locale tag, export delimiter and messaging phone number. An unparsable tag
// falls back to Spanish.
func NewFormatter(symbol, locale, delimiter, phone string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	if delimiter == "" {
		delimiter = ","
	}
	return &Formatter{
		printer:   message.NewPrinter(tag),
		symbol:    symbol,
		delimiter: delimiter,
		phone:     phone,
	}
}

// FormatAmount renders a currency amount with the configured symbol.
func (f *Formatter) FormatAmount(amount int64) string {
	return f.symbol + f.printer.Sprintf("%d", amount)
}

// FormatMessage renders the customer-facing order message: greeting, one
// bullet per cart line in insertion order, an optional notes block and a
// trailing total. The result is plain text; URL-encoding for the messaging
// link is the transport's job.
func (f *Formatter) FormatMessage(customerName string, lines []models.OrderLine, notes string) string {
	var sections []string

	name := strings.TrimSpace(customerName)
	if name != "" {
		sections = append(sections, fmt.Sprintf("Hola, soy %s. Quisiera pedir:", name))
	} else {
		sections = append(sections, "Hola! Quisiera pedir:")
	}

	if len(lines) > 0 {
		bullets := make([]string, 0, len(lines))
		for _, l := range lines {
			bullets = append(bullets, f.formatLine(l))
		}
		sections = append(sections, strings.Join(bullets, "\n"))
	}

	if n := strings.TrimSpace(notes); n != "" {
		sections = append(sections, "Notas: "+n)
	}

	sections = append(sections, "Total: "+f.FormatAmount(cart.Total(lines)))

	return strings.Join(sections, "\n\n")
}

// FormatOrderMessage renders the message for a persisted order, normalizing
// its stored line items first.
func (f *Formatter) FormatOrderMessage(order *models.Order) string {
	return f.FormatMessage(order.CustomerName, models.NormalizeLines(order.Items), order.Notes)
}

// HandoffLink builds the messaging-app URL carrying a formatted message.
// Returns empty when no phone number is configured.
func (f *Formatter) HandoffLink(text string) string {
	if f.phone == "" {
		return ""
	}
	return "https://wa.me/" + f.phone + "?text=" + url.QueryEscape(text)
}

func (f *Formatter) formatLine(l models.OrderLine) string {
	name := l.Name
	if name == "" {
		name = models.FallbackItemName
	}
	if l.Weight != "" {
		name = fmt.Sprintf("%s (%s)", name, l.Weight)
	}
	amount := l.EffectivePrice() * int64(l.Quantity)
	return fmt.Sprintf("• %dx %s - %s", l.Quantity, name, f.FormatAmount(amount))
}

// FormatExportRow renders one ledger row for an order. Fields containing the
// delimiter are not escaped; the export contract keeps the historical
// behavior of the ledger consumers.
func (f *Formatter) FormatExportRow(order *models.Order) string {
	lines := models.NormalizeLines(order.Items)

	items := make([]string, 0, len(lines))
	for _, l := range lines {
		items = append(items, fmt.Sprintf("%dx%s", l.Quantity, l.Name))
	}

	fields := []string{
		strconv.FormatInt(order.ID, 10),
		order.CreatedAt.Format(time.RFC3339),
		order.CustomerName,
		strconv.FormatInt(order.TotalAmount, 10),
		order.Status,
		strings.Join(items, ";"),
		order.Notes,
	}

	return strings.Join(fields, f.delimiter)
}

// FormatExport renders the full ledger blob: a header row followed by one
// row per order.
func (f *Formatter) FormatExport(orders []models.Order) string {
	rows := make([]string, 0, len(orders)+1)
	rows = append(rows, strings.Join(ExportHeader, f.delimiter))
	for i := range orders {
		rows = append(rows, f.FormatExportRow(&orders[i]))
	}
	return strings.Join(rows, "\n")
}
