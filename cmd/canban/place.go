package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	charmLog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Goldanik/canban/internal/domain"
	"github.com/Goldanik/canban/internal/placement"
)

// placeFallbackBounds sizes the headless canvas when config follows the terminal.
var placeFallbackBounds = domain.Size{W: 60, H: 16}

// placeOptions holds flag values for the place command.
type placeOptions struct {
	count      int
	width      int
	height     int
	cardWidth  int
	cardHeight int
	seed       uint64
}

// placedCard records one headless placement outcome.
type placedCard struct {
	label  rune
	rect   domain.Rect
	result placement.Result
}

// newPlaceCommand builds the headless placement command.
func newPlaceCommand(root *rootOptions, stdout io.Writer) *cobra.Command {
	opts := &placeOptions{}
	cmd := &cobra.Command{
		Use:   "place",
		Short: "Run the idea placement engine without a terminal UI",
		Long: `place drops a number of idea cards onto an empty canvas using the
configured placement engine and prints the resulting canvas and positions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(root)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("width") {
				opts.width = cfg.Canvas.Width
			}
			if !cmd.Flags().Changed("height") {
				opts.height = cfg.Canvas.Height
			}
			if opts.width <= 0 || opts.height <= 0 {
				opts.width, opts.height = placeFallbackBounds.W, placeFallbackBounds.H
			}
			if !cmd.Flags().Changed("card-width") {
				opts.cardWidth = cfg.Card.Width
			}
			if !cmd.Flags().Changed("card-height") {
				opts.cardHeight = cfg.Card.Height
			}
			if !cmd.Flags().Changed("seed") {
				opts.seed = cfg.Placement.Seed
			}
			if opts.count < 0 {
				return fmt.Errorf("--count must be >= 0")
			}

			logger := charmLog.NewWithOptions(cmd.ErrOrStderr(), charmLog.Options{Prefix: "place"})
			engineOpts := []placement.Option{
				placement.WithMaxAttempts(cfg.Placement.MaxAttempts),
				placement.WithLogger(logger),
			}
			if opts.seed != 0 {
				engineOpts = append(engineOpts, placement.WithSeed(opts.seed))
			}
			placed := runPlacement(placement.New(engineOpts...), opts)
			_, err = fmt.Fprintln(stdout, renderPlacement(placed, domain.Size{W: opts.width, H: opts.height}))
			return err
		},
	}
	cmd.Flags().IntVarP(&opts.count, "count", "n", 5, "number of idea cards to place")
	cmd.Flags().IntVar(&opts.width, "width", 0, "canvas width in cells")
	cmd.Flags().IntVar(&opts.height, "height", 0, "canvas height in cells")
	cmd.Flags().IntVar(&opts.cardWidth, "card-width", 0, "card width in cells")
	cmd.Flags().IntVar(&opts.cardHeight, "card-height", 0, "card height in cells")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 uses the config seed or the clock)")
	return cmd
}

// runPlacement places opts.count cards one after another, each avoiding the
// ones before it.
func runPlacement(engine *placement.Engine, opts *placeOptions) []placedCard {
	bounds := domain.Size{W: opts.width, H: opts.height}
	footprint := domain.Size{W: opts.cardWidth, H: opts.cardHeight}
	placed := make([]placedCard, 0, opts.count)
	occupied := make([]domain.Rect, 0, opts.count)
	for i := range opts.count {
		at, res := engine.Place(footprint, bounds, occupied)
		rect := domain.RectAt(at, footprint)
		occupied = append(occupied, rect)
		placed = append(placed, placedCard{label: rune('A' + i%26), rect: rect, result: res})
	}
	return placed
}

// renderPlacement draws the canvas grid above a table of positions.
func renderPlacement(placed []placedCard, bounds domain.Size) string {
	grid := make([][]rune, bounds.H)
	for y := range grid {
		grid[y] = []rune(strings.Repeat("·", bounds.W))
	}
	for _, card := range placed {
		for y := card.rect.Min.Y; y < min(card.rect.MaxY(), bounds.H); y++ {
			for x := card.rect.Min.X; x < min(card.rect.MaxX(), bounds.W); x++ {
				grid[y][x] = card.label
			}
		}
	}
	rows := make([]string, 0, len(grid))
	for _, row := range grid {
		rows = append(rows, string(row))
	}
	canvas := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Render(strings.Join(rows, "\n"))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
		Headers("Card", "X", "Y", "Attempts", "Result").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, card := range placed {
		t.Row(
			string(card.label),
			strconv.Itoa(card.rect.Min.X),
			strconv.Itoa(card.rect.Min.Y),
			strconv.Itoa(card.result.Attempts),
			placementVerdict(card.result),
		)
	}
	return canvas + "\n" + t.Render()
}

// placementVerdict summarizes one placement result.
func placementVerdict(res placement.Result) string {
	switch {
	case res.Exhausted:
		return "exhausted"
	case res.Clamped:
		return "clamped"
	default:
		return "ok"
	}
}
