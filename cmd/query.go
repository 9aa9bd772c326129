package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"contributions-viewer/core"
	"contributions-viewer/pkg/resources"
)

var queryParams core.QueryParams

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Evaluate one query against the configured source and print the page as JSON",
	Example: `  contributions-viewer query --data-file seed_data/contributions.json --title alpha --owner bob --match any
  contributions-viewer query --id 1 --id 2 --order-by startTime --limit 5`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func init() {
	flags := queryCmd.Flags()
	flags.StringVar(&queryParams.Skip, "skip", strconv.Itoa(core.DefaultSkip), "number of matches to skip")
	flags.StringVar(&queryParams.Limit, "limit", strconv.Itoa(core.DefaultLimit), "maximum number of matches to return")
	flags.StringVar(&queryParams.OrderBy, "order-by", string(core.SortById), "id, title, description, startTime, endTime or owner")
	flags.StringArrayVar(&queryParams.Id, "id", nil, "contribution id, repeatable")
	flags.StringVar(&queryParams.Title, "title", "", "case-insensitive title pattern")
	flags.StringVar(&queryParams.Description, "description", "", "case-insensitive description pattern")
	flags.StringVar(&queryParams.Owner, "owner", "", "case-insensitive owner pattern")
	flags.StringVar(&queryParams.StartBefore, "start-before", "", "startTime strictly before this ISO-8601 value")
	flags.StringVar(&queryParams.StartAfter, "start-after", "", "startTime strictly after this ISO-8601 value")
	flags.StringVar(&queryParams.EndBefore, "end-before", "", "endTime strictly before this ISO-8601 value")
	flags.StringVar(&queryParams.EndAfter, "end-after", "", "endTime strictly after this ISO-8601 value")
	flags.StringVar(&queryParams.Match, "match", string(core.MatchAll), "all (AND) or any (OR)")
}

func runQuery(cmd *cobra.Command, _ []string) error {
	ctx := resources.ConfigureLogger(cmd.Context(), os.Stderr, name, version, viper.GetString(resources.AppEnv))

	query, err := core.ParseQuery(queryParams)
	if err != nil {
		return err
	}

	store, err := loadStore(ctx)
	if err != nil {
		return fmt.Errorf("unable to load contributions: %w", err)
	}
	defer store.Close()

	page, err := core.NewEngine(store).Search(ctx, query)
	if err != nil {
		return err
	}

	log.Ctx(ctx).Debug().Int("total", page.Total).Msg("query evaluated")

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")

	return encoder.Encode(page)
}
