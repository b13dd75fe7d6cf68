package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	_ "modernc.org/sqlite"

	"github.com/bestskiday/bestskiday/internal/api"
	"github.com/bestskiday/bestskiday/internal/models"
	"github.com/bestskiday/bestskiday/internal/openmeteo"
	"github.com/bestskiday/bestskiday/internal/skiday"
	"github.com/bestskiday/bestskiday/internal/store"
)

type appContext struct {
	store    *store.Store
	forecast *openmeteo.ForecastClient
	geocode  *openmeteo.GeocodeClient
}

type serveCmd struct {
	Listen    string  `help:"HTTP listen address." default:":8080" env:"BESTSKIDAY_LISTEN"`
	RateLimit float64 `help:"Max inbound requests per second (0 disables)." default:"10" env:"BESTSKIDAY_RATE_LIMIT"`
}

func (c *serveCmd) Run(app *appContext) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server := api.NewServer(app.store, app.forecast, app.geocode, c.Listen, c.RateLimit)
	log.Printf("starting server on %s", c.Listen)
	return server.Run(ctx)
}

type scoreCmd struct {
	Lat  float64 `help:"Latitude in decimal degrees." required:""`
	Lon  float64 `help:"Longitude in decimal degrees." required:""`
	Days int     `help:"Forecast window in days." default:"7"`
	Name string  `help:"Display name for the location." default:"Coordinate"`
}

func (c *scoreCmd) Run(app *appContext) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	run, err := app.store.StartFetchRun(c.Lat, c.Lon, c.Days)
	if err != nil {
		log.Printf("start fetch run: %v", err)
	}

	loader := skiday.NewLoader(app.forecast.FetchForecast, c.Days)
	set, err := loader.Load(ctx, models.Location{Name: c.Name, Latitude: c.Lat, Longitude: c.Lon})
	if run != nil {
		run.Success = err == nil
		if err != nil {
			run.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		} else {
			run.DaysScored = sql.NullInt64{Int64: int64(len(set.Days)), Valid: true}
		}
		if err := app.store.CompleteFetchRun(run); err != nil {
			log.Printf("complete fetch run: %v", err)
		}
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tMIN°C\tMAX°C\tSNOWFALL\tSNOW HEIGHT\tSUN\tSCORE")
	for _, day := range set.Days {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.1fcm\t%.0fcm\t%.0f%%\t%.0f\n",
			day.Date.Format("Mon Jan 2"),
			day.TemperatureMin, day.TemperatureMax,
			day.SnowfallTotal, day.SnowHeight,
			day.SunshinePercent, day.Score)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if best := bestDay(set.Days); best != nil {
		fmt.Printf("\nBest ski day: %s (score %.0f)\n", best.Date.Format("Monday Jan 2"), best.Score)
	}
	return nil
}

// bestDay returns the highest-scoring day, earliest winning ties.
func bestDay(days []models.DayForecast) *models.DayForecast {
	if len(days) == 0 {
		return nil
	}
	ranked := make([]models.DayForecast, len(days))
	copy(ranked, days)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return &ranked[0]
}

type favoritesCmd struct {
	List   favoritesListCmd   `cmd:"" help:"List saved locations."`
	Add    favoritesAddCmd    `cmd:"" help:"Save a location."`
	Remove favoritesRemoveCmd `cmd:"" help:"Remove a saved location by id."`
}

type favoritesListCmd struct{}

func (c *favoritesListCmd) Run(app *appContext) error {
	favorites, err := app.store.ListFavorites()
	if err != nil {
		return err
	}
	if len(favorites) == 0 {
		fmt.Println("no saved locations")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLAT\tLON")
	for _, loc := range favorites {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\n", loc.ID, loc.Name, loc.Latitude, loc.Longitude)
	}
	return tw.Flush()
}

type favoritesAddCmd struct {
	Name string  `help:"Display name." required:""`
	Lat  float64 `help:"Latitude in decimal degrees." required:""`
	Lon  float64 `help:"Longitude in decimal degrees." required:""`
}

func (c *favoritesAddCmd) Run(app *appContext) error {
	loc := models.Location{Name: c.Name, Latitude: c.Lat, Longitude: c.Lon}
	loc.ID = loc.Key()
	if err := app.store.AddFavorite(loc); err != nil {
		return err
	}
	fmt.Printf("saved %s (%s)\n", loc.Name, loc.ID)
	return nil
}

type favoritesRemoveCmd struct {
	ID string `arg:"" help:"Favorite id to remove."`
}

func (c *favoritesRemoveCmd) Run(app *appContext) error {
	removed, err := app.store.RemoveFavorite(c.ID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("no favorite with id %s", c.ID)
	}
	fmt.Printf("removed %s\n", c.ID)
	return nil
}

var cli struct {
	DB string `help:"Path to SQLite database." default:"data/bestskiday.db" env:"BESTSKIDAY_DB"`

	Serve     serveCmd     `cmd:"" default:"withargs" help:"Run the HTTP API server."`
	Score     scoreCmd     `cmd:"" help:"Fetch and score a ski forecast for a coordinate."`
	Favorites favoritesCmd `cmd:"" help:"Manage saved locations."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("bestskiday"),
		kong.Description("Scores upcoming days for skiing quality at a location."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	app := &appContext{
		store:    st,
		forecast: openmeteo.NewForecastClient(),
		geocode:  openmeteo.NewGeocodeClient(),
	}

	kctx.FatalIfErrorf(kctx.Run(app))
}
