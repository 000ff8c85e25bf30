// Package transactions handles the commands that list and edit transactions
package transactions

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"fjacquet/finance-peres/cmd/root"
	"fjacquet/finance-peres/internal/currencyutils"
	"fjacquet/finance-peres/internal/dateutils"
	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/models"
	"fjacquet/finance-peres/internal/store"
	"fjacquet/finance-peres/internal/validation"

	"github.com/spf13/cobra"
)

// recordFlags are shared by add and edit.
type recordFlags struct {
	Description string
	Amount      string
	Date        string
	Category    string
	Kind        string
	Status      string
	Frequency   string
}

var (
	listKind string
	listAll  bool

	addFlags  recordFlags
	editFlags recordFlags
)

// ListCmd prints the transactions of the selected month
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions of a month",
	Long:  `List the transactions of the month given by --month, optionally filtered by kind.`,
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

// AddCmd records a new transaction
var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a transaction",
	Long:  `Add a transaction locally and send it to the spreadsheet in the background.`,
	Args:  cobra.NoArgs,
	RunE:  addFunc,
}

// EditCmd changes fields of an existing transaction
var EditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a transaction",
	Long:  `Edit the fields given as flags on the transaction with the given id.`,
	Args:  cobra.ExactArgs(1),
	RunE:  editFunc,
}

// RemoveCmd deletes a transaction
var RemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a transaction",
	Args:    cobra.ExactArgs(1),
	RunE:    removeFunc,
}

// ToggleCmd flips a transaction between paid and pending
var ToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Toggle a transaction between Pago and Pendente",
	Args:  cobra.ExactArgs(1),
	RunE:  toggleFunc,
}

func init() {
	ListCmd.Flags().StringVarP(&listKind, "kind", "k", "", "Only list this kind (Receita, Despesa, Investimento)")
	ListCmd.Flags().BoolVar(&listAll, "all", false, "List every month")

	bindRecordFlags(AddCmd, &addFlags)
	_ = AddCmd.MarkFlagRequired("description")
	_ = AddCmd.MarkFlagRequired("amount")

	bindRecordFlags(EditCmd, &editFlags)
}

func bindRecordFlags(cmd *cobra.Command, f *recordFlags) {
	cmd.Flags().StringVarP(&f.Description, "description", "d", "", "Description")
	cmd.Flags().StringVarP(&f.Amount, "amount", "a", "", "Amount, e.g. 1234.56 or 1.234,56")
	cmd.Flags().StringVarP(&f.Date, "date", "t", "", "Date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVarP(&f.Category, "category", "c", "", "Category (default: Outro)")
	cmd.Flags().StringVarP(&f.Kind, "kind", "k", string(models.KindExpense), "Kind: Receita, Despesa or Investimento")
	cmd.Flags().StringVarP(&f.Status, "status", "s", string(models.StatusPending), "Status: Pago or Pendente")
	cmd.Flags().StringVarP(&f.Frequency, "frequency", "f", string(models.FrequencySporadic), "Frequency: Fixo or Esporádico")
}

func listFunc(cmd *cobra.Command, args []string) error {
	ctx := root.Context(cmd)
	if err := root.OpenStore(ctx); err != nil {
		return err
	}
	app := root.GetContainer()

	records := app.GetStore().Snapshot()
	if !listAll {
		year, month, err := root.SelectedMonth()
		if err != nil {
			return err
		}
		records = store.FilterByMonth(records, year, month)
	}
	if listKind != "" {
		kind, err := validation.ParseKind(listKind)
		if err != nil {
			return err
		}
		filtered := records[:0]
		for _, t := range records {
			if t.Kind == kind {
				filtered = append(filtered, t)
			}
		}
		records = filtered
	}

	return PrintTable(cmd.OutOrStdout(), records, app.GetConfig().Export.CurrencySymbol, root.SharedFlags.HideValues)
}

// PrintTable writes records as an aligned table.
func PrintTable(w io.Writer, records []models.Transaction, symbol string, hide bool) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "Nenhuma transação encontrada.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATA\tDESCRIÇÃO\tCATEGORIA\tTIPO\tSTATUS\tVALOR")
	for _, t := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date, t.Description, t.Category, t.Kind, t.Status,
			currencyutils.FormatAmount(t.Amount, symbol, hide))
	}
	return tw.Flush()
}

func addFunc(cmd *cobra.Command, args []string) error {
	ctx := root.Context(cmd)
	if err := root.OpenStore(ctx); err != nil {
		return err
	}

	record, err := addFlags.apply(cmd, models.Transaction{})
	if err != nil {
		return err
	}
	if record.Date == "" {
		record.Date = dateutils.ToISODate(time.Now())
	}

	created, err := root.GetContainer().GetStore().Add(ctx, record)
	if err != nil {
		return err
	}
	root.GetLogger().Info("Transaction added", logging.F(logging.FieldTransactionID, created.ID))
	fmt.Fprintf(cmd.OutOrStdout(), "Transação %s adicionada.\n", created.ID)
	return nil
}

func editFunc(cmd *cobra.Command, args []string) error {
	ctx := root.Context(cmd)
	if err := root.OpenStore(ctx); err != nil {
		return err
	}
	st := root.GetContainer().GetStore()

	current, err := st.Get(args[0])
	if err != nil {
		return err
	}
	record, err := editFlags.apply(cmd, current)
	if err != nil {
		return err
	}

	updated, err := st.Update(ctx, record)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Transação %s atualizada.\n", updated.ID)
	return nil
}

func removeFunc(cmd *cobra.Command, args []string) error {
	ctx := root.Context(cmd)
	if err := root.OpenStore(ctx); err != nil {
		return err
	}
	if err := root.GetContainer().GetStore().Remove(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Transação %s removida.\n", args[0])
	return nil
}

func toggleFunc(cmd *cobra.Command, args []string) error {
	ctx := root.Context(cmd)
	if err := root.OpenStore(ctx); err != nil {
		return err
	}
	toggled, err := root.GetContainer().GetStore().ToggleStatus(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Transação %s agora está %s.\n", toggled.ID, toggled.Status)
	return nil
}

// apply copies every flag set on cmd onto base. On add every flag counts,
// so defaults for kind, status and frequency are applied too.
func (f *recordFlags) apply(cmd *cobra.Command, base models.Transaction) (models.Transaction, error) {
	adding := base.ID == ""
	set := func(name string) bool { return adding || cmd.Flags().Changed(name) }

	if set("description") {
		base.Description = strings.TrimSpace(f.Description)
	}
	if set("amount") {
		amount, err := validation.ParseAmount(f.Amount)
		if err != nil {
			return base, err
		}
		base.Amount = amount
	}
	if set("date") && f.Date != "" {
		base.Date = dateutils.NormalizeISO(f.Date)
	}
	if set("kind") {
		kind, err := validation.ParseKind(f.Kind)
		if err != nil {
			return base, err
		}
		base.Kind = kind
	}
	if set("category") {
		base.Category = canonicalCategory(base.Kind, f.Category)
	}
	if set("status") {
		status, err := validation.ParseStatus(f.Status)
		if err != nil {
			return base, err
		}
		base.Status = status
	}
	if set("frequency") {
		frequency, err := validation.ParseFrequency(f.Frequency)
		if err != nil {
			return base, err
		}
		base.Frequency = frequency
	}
	return base, nil
}

// canonicalCategory maps a category onto the catalog spelling, keeping
// unknown names as typed.
func canonicalCategory(kind models.Kind, category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return ""
	}
	cat := root.GetContainer().GetCatalog()
	if !cat.IsKnown(kind, category) {
		root.GetLogger().Warn("Category not in catalog, keeping as typed",
			logging.F("category", category), logging.F("kind", string(kind)))
		return category
	}
	return cat.Canonical(kind, category)
}
