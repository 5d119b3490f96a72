package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/camden-git/familyring/codes"
	"github.com/camden-git/familyring/models"
)

var (
	colorMuted   = lipgloss.Color("#6B7280")
	colorAccent  = lipgloss.Color("#D97706")
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	partnerStyle = cellStyle.Foreground(colorMuted)
	ringStyle    = cellStyle.Foreground(colorAccent)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the family ordered by generation and code",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringP("query", "q", "", "only people whose name, code or ring lineage contains this text")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	query, _ := cmd.Flags().GetString("query")

	ws, closeDB, err := openWorkspace(cfg, nil, nil)
	if err != nil {
		return err
	}
	defer closeDB()

	people := ws.Search(query)
	fmt.Fprintln(cmd.OutOrStdout(), renderPeople(people))

	st := ws.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d people, %d generations, %d partners, %d ring carriers\n",
		len(people), st.Total, st.Generations, st.Partners, st.RingCarriers)
	return nil
}

// renderPeople lays the people out as a table. Partner rows are dimmed and the
// ring lineage column is highlighted.
func renderPeople(people []*models.Person) string {
	rows := make([][]string, len(people))
	for i, p := range people {
		rows[i] = []string{
			fmt.Sprint(p.Generation),
			p.Code,
			p.Name,
			p.BirthDate,
			p.DeathDate,
			p.Gender.Symbol(),
			p.ParentCode,
			p.PartnerCode,
			p.RingLineage,
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("Gen", "Code", "Name", "Born", "Died", "G", "Parent", "Partner", "Ring").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 8:
				return ringStyle
			case codes.IsPartner(people[row].Code):
				return partnerStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}
