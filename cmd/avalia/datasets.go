package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/diavi-ufpa/avalia/internal/survey"
)

var distributionYear string

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the imported survey years",
	Long: `List the imported survey years. With --distribution, print how many
times each rating was given to each item of that year.

Examples:
  avalia datasets
  avalia datasets --distribution 2025`,
	RunE: runDatasets,
}

func init() {
	datasetsCmd.Flags().StringVar(&distributionYear, "distribution", "", "year whose rating distribution is printed")
}

func runDatasets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	db, repo, err := e.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer w.Flush()

	if distributionYear != "" {
		counts, err := repo.RatingDistribution(ctx, distributionYear)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ITEM\tCONCEITO\tTOTAL")
		for _, c := range counts {
			concept, ok := survey.Rating(c.Rating).Concept()
			if !ok {
				continue
			}
			fmt.Fprintf(w, "%d\t%s\t%d\n", c.Item, concept, c.Count)
		}
		return nil
	}

	infos, err := repo.ListDatasets(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "ANO\tARQUIVO\tIMPORTADO EM\tQUESTÕES\tRESPOSTAS")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			info.Year, info.Source, info.ImportedAt.Local().Format(time.DateTime), info.Questions, info.Responses)
	}
	return nil
}
