package senfi_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	senfi "github.com/senfi-io/senfi-go"
)

func ExampleClient_Initialize() {
	client := senfi.New()

	ctx := context.Background()
	err := client.Initialize(ctx, os.Getenv("SENFI_API_KEY"), os.Getenv("SENFI_API_SECRET"), map[string]any{
		"host": "api.senfi.io",
	})
	if err != nil {
		log.Fatal(err)
	}

	sites, err := client.GetSites(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, site := range sites {
		name, _ := senfi.GetString(site, "name")
		fmt.Println("Site:", name)
	}
}

func ExampleNew_withOptions() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	client := senfi.New(
		senfi.WithTimeout(15*time.Second),
		senfi.WithLogger(logger),
		senfi.WithMetrics(senfi.NewMetrics(prometheus.DefaultRegisterer)),
		senfi.WithRateLimit(20, 5),
		senfi.WithCache(senfi.DefaultCacheConfig()),
	)

	_ = client
}

func ExampleLoadSettingsFile() {
	settings, err := senfi.LoadSettingsFile("/etc/senfi/client.yaml")
	if err != nil {
		log.Fatal(err)
	}

	client := senfi.New()
	if err := client.Initialize(context.Background(), "key", "secret", settings); err != nil {
		log.Fatal(err)
	}
}

func ExampleClient_Dispatch() {
	client := senfi.New()
	ctx := context.Background()

	resp, err := client.Dispatch(ctx, "get", "/site", nil)
	if err != nil {
		var e *senfi.Error
		if errors.As(err, &e) {
			// e.Envelope() is the failed {success, errcode, errmsg} envelope.
			fmt.Println(e.Code, e.Message)
		}
		return
	}

	var sites []senfi.Record
	resp.Field("sites", &sites)
	fmt.Println(len(sites))
}

func ExampleClient_Dispatch_uninitialized() {
	client := senfi.New()

	_, err := client.Dispatch(context.Background(), "get", "/site", nil)
	fmt.Println(senfi.KindOf(err))
	fmt.Println(errors.Is(err, senfi.ErrNotInitialized))
	// Output:
	// sdk_exception
	// true
}

func ExampleClient_GetAssetIDFromTag() {
	client := senfi.New()
	ctx := context.Background()

	lookup, err := client.GetAssetIDFromTag(ctx, "temperature", map[string]string{"room": "101"})
	if err != nil {
		log.Fatal(err)
	}
	if !lookup.Found {
		fmt.Println("no unique asset")
		return
	}
	fmt.Println("asset", lookup.AssetID)
}

func ExampleClient_SubscribeCommands() {
	client := senfi.New()
	ctx := context.Background()

	if err := client.SetWebhook(ctx, "https://bridge.example.com/senfi"); err != nil {
		log.Fatal(err)
	}
	token, err := client.SubscribeCommands(ctx, "hvac_setpoint")
	if err != nil {
		log.Fatal(err)
	}
	defer client.UnsubscribeCommands(ctx, token)
}

func ExampleClient_DispatchBatch() {
	client := senfi.New()

	results := client.DispatchBatch(context.Background(), []senfi.BatchRequest{
		{Method: "get", Path: "/site"},
		{Method: "get", Path: "/subscription", Body: map[string]any{}},
	}, &senfi.BatchConfig{MaxConcurrent: 2})

	for _, r := range results {
		if r.Error != nil {
			fmt.Printf("%s: %s\n", r.Request.Path, senfi.KindOf(r.Error))
		}
	}
	// Output:
	// /site: sdk_exception
	// /subscription: sdk_exception
}

func ExampleWithRateLimitCallback() {
	client := senfi.New(senfi.WithRateLimitCallback(func(info senfi.RateLimitInfo) {
		if info.Remaining < 10 {
			log.Printf("approaching rate limit: %d/%d remaining", info.Remaining, info.Limit)
		}
	}))

	_ = client
}
