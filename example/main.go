package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	geolite "github.com/proipinfo/golang-geolite"
)

func main() {
	dataDir := flag.String("data", "", "directory of the .dat files (default $GEOLITE_DATA_DIR or ./data)")
	format := flag.String("format", "text", "output format: text, json or msgpack")
	useMmap := flag.Bool("mmap", false, "map data files instead of reading them")
	watchFlag := flag.Bool("watch", false, "keep running and reload when the data files change")
	verbose := flag.Bool("v", false, "log load events")
	flag.Parse()

	logger := geolite.NoopLogger()
	if *verbose {
		logger = geolite.NewTextLogger(slog.LevelDebug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := geolite.Open(ctx, *dataDir,
		geolite.WithMmap(*useMmap),
		geolite.WithLogger(logger),
	)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	for _, ip := range flag.Args() {
		if err := printRecord(*format, ip, db.Lookup(ip)); err != nil {
			panic(err)
		}
	}

	if !*watchFlag {
		return
	}
	err = db.StartWatching(func() {
		fmt.Fprintf(os.Stderr, "%s reloaded: %s\n", time.Now().Format(time.RFC3339), describe(db))
	})
	if err != nil {
		panic(err)
	}
	fmt.Fprintf(os.Stderr, "watching %s\n", describe(db))
	<-ctx.Done()
}

func printRecord(format, ip string, rec *geolite.Result) error {
	if rec == nil {
		fmt.Printf("%s: not found\n", ip)
		return nil
	}
	switch format {
	case "json":
		out, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "msgpack":
		out, err := rec.Pack()
		if err != nil {
			return err
		}
		fmt.Printf("%x\n", out)
	default:
		fmt.Printf("%s: %s-%s %s %s %s (%.4f, %.4f)\n", ip,
			geolite.FormatAddress(rec.Range[0]), geolite.FormatAddress(rec.Range[1]),
			rec.Country, rec.Region, rec.City, rec.LL[0], rec.LL[1])
	}
	return nil
}

func describe(db *geolite.Client) string {
	v4, v6 := db.Info(geolite.IPv4), db.Info(geolite.IPv6)
	return fmt.Sprintf("ipv4 %s/%d records, ipv6 %s/%d records",
		v4.Schema, v4.RecordCount, v6.Schema, v6.RecordCount)
}
