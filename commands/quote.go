package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"autobid/models"
	"autobid/services/catalog"
	"autobid/services/pricing"
	"autobid/utils"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func quoteCmd() *cobra.Command {
	var (
		catalogPath string
		price       string
		bid         string
		services    []string
		delivery    string
		locationID  string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a booking offline from a catalog file",
		Example: `  autobid quote --catalog catalog.json --price 50000 --services 2,4 --location 7
  autobid quote --catalog catalog.json --price 50000 --delivery self_pickup --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := models.DeliveryMode(delivery)
			if !mode.Valid() {
				return fmt.Errorf("invalid delivery mode %q", delivery)
			}

			snap := catalog.NewLoader(catalog.FileSource{Path: catalogPath}, utils.GetLogger()).Load(cmd.Context())
			if snap.ServicesStatus.Error != "" {
				return fmt.Errorf("service catalog: %s", snap.ServicesStatus.Error)
			}
			if snap.LocationsStatus.Error != "" {
				return fmt.Errorf("location catalog: %s", snap.LocationsStatus.Error)
			}

			in := pricing.Input{
				BasePrice:          utils.ParseAmount(price),
				FixedFees:          snap.FixedFees,
				OptionalServices:   snap.OptionalServices,
				SelectedServiceIDs: services,
				DeliveryMode:       mode,
			}
			if bid != "" {
				in.BasePrice = utils.ParseAmount(bid)
			}
			if mode == models.DeliveryDoor && locationID != "" {
				loc, ok := snap.Location(locationID)
				if !ok {
					return fmt.Errorf("unknown location %q", locationID)
				}
				in.Location = &loc
			}

			b := pricing.ComputeTotal(in)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(b)
			}
			return printBreakdown(cmd.OutOrStdout(), b)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "catalog.json", "catalog file with services and locations")
	cmd.Flags().StringVar(&price, "price", "0", "vehicle list price")
	cmd.Flags().StringVar(&bid, "bid", "", "accepted bid, overrides --price")
	cmd.Flags().StringSliceVar(&services, "services", nil, "selected optional service ids")
	cmd.Flags().StringVar(&delivery, "delivery", string(models.DeliveryDoor), "door_delivery or self_pickup")
	cmd.Flags().StringVar(&locationID, "location", "", "delivery location id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the breakdown as JSON")
	return cmd
}

func printBreakdown(out io.Writer, b models.PricingBreakdown) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	row := func(label string, amount, charged decimal.Decimal) {
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", label, utils.FormatAmount(amount), utils.FormatAmount(charged))
	}
	fmt.Fprintf(w, "Item\tAmount\tCharged\t\n")
	row("Vehicle price", b.BasePrice, b.BasePrice)
	for _, f := range b.FixedFees {
		label := f.Name
		if f.Waived {
			label += " (waived)"
		}
		// waived fees keep their original amount visible next to the zero charge
		row(label, f.Amount, f.Contribution)
	}
	for _, s := range b.Services {
		row(s.Name, s.Amount, s.Amount)
	}
	delivery := "Delivery"
	if b.DeliveryMode == models.DeliverySelfPickup {
		delivery = models.SelfPickupLabel
	}
	row(delivery, b.DeliveryCharge, b.DeliveryCharge)
	total := "Total"
	if b.Provisional {
		total = "Total (choose a location)"
	}
	fmt.Fprintf(w, "%s\t\t%s\t\n", total, utils.FormatAmount(b.GrandTotal))
	return w.Flush()
}
