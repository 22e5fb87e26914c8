package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/james-harris851b/Loot-Table-FHE/internal/catalog"
	"github.com/james-harris851b/Loot-Table-FHE/internal/codec"
	"github.com/james-harris851b/Loot-Table-FHE/internal/loot"
	"github.com/james-harris851b/Loot-Table-FHE/internal/reveal"
)

var errNoWallet = errors.New("no wallet configured: set PRIVATE_KEY to sign")

var (
	listSearch   string
	listCategory string
	addName      string
	addCategory  string
	addRate      float64
	enhanceOp    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog, sorted by drop rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := app.store.ListAll(cmd.Context())
		if err != nil {
			return err
		}
		records = catalog.SortByDropRate(records)
		records = catalog.Filter(records, listSearch, loot.Category(listCategory))
		if len(records) == 0 {
			fmt.Println("No loot items found.")
			return nil
		}

		for _, r := range records {
			fmt.Printf("%-36s  %-12s  %-12s  %-10s  %-20s  %s\n",
				r.Key, r.Name, r.Category, tierBadge(r.Tier), tokenPreview(r.DropRate), shortOwner(r.Owner))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics and top contributors",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := app.store.ListAll(cmd.Context())
		if err != nil {
			return err
		}

		s := catalog.Stats(records)
		fmt.Printf("Total items:     %d\n", s.Total)
		fmt.Printf("Common:          %d\n", s.CommonCount)
		fmt.Printf("Rare:            %d\n", s.RareCount)
		fmt.Printf("Legendary:       %d\n", s.LegendaryCount)
		fmt.Printf("Avg drop rate:   %.4f\n", s.AverageDropRate)

		top := catalog.TopContributors(records, 5)
		if len(top) == 0 {
			fmt.Println("No contributors yet.")
			return nil
		}
		fmt.Println("Top contributors:")
		for i, c := range top {
			fmt.Printf("  #%d %s — %d items\n", i+1, shortOwner(c.Owner), c.Count)
		}
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a loot item; the drop rate is encoded before it leaves the client",
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.wallet == nil {
			return errNoWallet
		}

		app.tracker.Begin("Encrypting drop rate and submitting...")
		rec, err := app.store.Add(cmd.Context(), addName, loot.Category(addCategory), addRate, app.wallet.Address())
		if err != nil {
			app.tracker.Fail("Submission failed: " + err.Error())
			return err
		}
		app.tracker.Succeed("Loot item added")
		fmt.Printf("Added %q (%s, %s) — key %s\n", rec.Name, rec.Category, rec.Tier, rec.Key)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one loot item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := app.store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Name:      %s\n", r.Name)
		fmt.Printf("Category:  %s\n", r.Category)
		fmt.Printf("Rarity:    %s\n", tierBadge(r.Tier))
		fmt.Printf("Owner:     %s\n", r.Owner)
		fmt.Printf("Added:     %s\n", time.Unix(r.CreatedAt, 0).UTC().Format(time.RFC3339))
		fmt.Printf("Drop rate: %s (run `loottable reveal %s` to decode)\n", tokenPreview(r.DropRate), r.Key)
		return nil
	},
}

var enhanceCmd = &cobra.Command{
	Use:   "enhance <key>",
	Short: "Transform an item's encoded drop rate in place",
	Long: `Applies a named transform (increase10pct, decrease10pct, double, identity)
to the item's encoded drop rate. The plain value never surfaces: the
transform happens on the encoded token and the rarity tier is recomputed
from the result. Only the item's owner may enhance it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.wallet == nil {
			return errNoWallet
		}
		op, ok := codec.ParseOp(enhanceOp)
		if !ok {
			return fmt.Errorf("unknown op %q (want increase10pct, decrease10pct, double, or identity)", enhanceOp)
		}

		rec, err := app.store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !strings.EqualFold(rec.Owner, app.wallet.Address()) {
			return errors.New("only the item's owner can enhance it")
		}

		app.tracker.Begin("Transforming encrypted drop rate...")
		out, err := app.store.Enhance(cmd.Context(), args[0], op)
		if err != nil {
			app.tracker.Fail("Enhancement failed: " + err.Error())
			return err
		}
		app.tracker.Succeed("Enhancement completed")
		fmt.Printf("%q is now %s (%s)\n", out.Name, out.Tier, tokenPreview(out.DropRate))
		return nil
	},
}

var revealCmd = &cobra.Command{
	Use:   "reveal <key>",
	Short: "Decode an item's drop rate after a wallet signature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := app.store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		var signer reveal.Signer
		if app.wallet != nil {
			signer = app.wallet
		}
		sess := reveal.NewSession(app.session)
		value, err := sess.Reveal(cmd.Context(), signer, rec.DropRate)
		switch {
		case errors.Is(err, reveal.ErrNoIdentity):
			return errNoWallet
		case errors.Is(err, reveal.ErrUserRejected):
			fmt.Println("Signature request declined; drop rate stays hidden.")
			return nil
		case err != nil:
			return err
		}

		fmt.Printf("%q drop rate: %.4f%%\n", rec.Name, value*100)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listSearch, "search", "", "substring match on name or category")
	listCmd.Flags().StringVar(&listCategory, "category", string(loot.CategoryAll), "filter by category")

	addCmd.Flags().StringVar(&addName, "name", "", "item name")
	addCmd.Flags().StringVar(&addCategory, "category", string(loot.CategoryWeapon), "item category")
	addCmd.Flags().Float64Var(&addRate, "rate", 0.01, "drop rate in [0,1]")
	_ = addCmd.MarkFlagRequired("name")

	enhanceCmd.Flags().StringVar(&enhanceOp, "op", codec.OpIncrease10.String(), "transform to apply")

	rootCmd.AddCommand(listCmd, statsCmd, addCmd, getCmd, enhanceCmd, revealCmd)
}
