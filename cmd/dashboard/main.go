// Command dashboard prints the admin analytics and the health of a running server.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"social-club/services"

	"github.com/go-json-experiment/json"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"
)

type Config struct {
	APIAddr  string        `envconfig:"API_ADDR" default:"http://localhost:8080"`
	GRPCAddr string        `envconfig:"GRPC_ADDR" default:"localhost:9090"`
	Token    string        `envconfig:"ADMIN_TOKEN" required:"true"`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"5s"`
	// DASHBOARD_DEBUG_JSON dumps the raw health response as JSON
	DebugJSON bool `envconfig:"DASHBOARD_DEBUG_JSON" default:"false"`
	Colours   bool `envconfig:"DASHBOARD_COLOURS" default:"true"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}
	if err := run(cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config, out io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	fmt.Fprintln(out, header("Health", cfg.Colours))
	if err := printHealth(ctx, cfg, out); err != nil {
		fmt.Fprintln(out, paint(color.FgRed, "unreachable: "+err.Error(), cfg.Colours))
	}

	fmt.Fprintln(out, header("Analytics", cfg.Colours))
	analytics, err := fetchAnalytics(ctx, http.DefaultClient, cfg.APIAddr, cfg.Token)
	if err != nil {
		return err
	}
	renderAnalytics(out, analytics)
	return nil
}

func printHealth(ctx context.Context, cfg Config, out io.Writer) error {
	conn, err := grpc.NewClient(cfg.GRPCAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer conn.Close()

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		return err
	}
	if cfg.DebugJSON {
		marshaler := protojson.MarshalOptions{UseProtoNames: true, Multiline: true, EmitUnpopulated: true}
		fmt.Fprintln(out, marshaler.Format(resp))
	}
	statusColor := color.FgGreen
	if resp.Status != grpc_health_v1.HealthCheckResponse_SERVING {
		statusColor = color.FgRed
	}
	fmt.Fprintln(out, paint(statusColor, resp.Status.String(), cfg.Colours))
	return nil
}

func fetchAnalytics(ctx context.Context, client *http.Client, baseURL, token string) (services.Analytics, error) {
	url := strings.TrimSuffix(baseURL, "/") + "/api/v1/admin/analytics"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return services.Analytics{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		return services.Analytics{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return services.Analytics{}, fmt.Errorf("analytics request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	var analytics services.Analytics
	if err := json.UnmarshalRead(resp.Body, &analytics); err != nil {
		return services.Analytics{}, fmt.Errorf("decoding analytics: %w", err)
	}
	return analytics, nil
}

func renderAnalytics(out io.Writer, a services.Analytics) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	count := func(n int64) string { return strconv.FormatInt(n, 10) }
	counter := func(n uint64) string { return strconv.FormatUint(n, 10) }
	table.AppendBulk([][]string{
		{"users", count(a.Users)},
		{"posts", count(a.Posts)},
		{"comments", count(a.Comments)},
		{"likes", count(a.Likes)},
		{"friend requests", count(a.FriendRequests)},
		{"companies", count(a.Companies)},
		{"jobs", count(a.Jobs)},
		{"applications", count(a.Applications)},
		{"messages", count(a.Messages)},
		{"online users", strconv.Itoa(a.OnlineUsers)},
		{"connections", strconv.Itoa(a.Connections)},
		{"notifications pushed", counter(a.Delivery.NotificationsPushed)},
		{"notifications dropped", counter(a.Delivery.NotificationsDropped)},
		{"notifications suppressed", counter(a.Delivery.NotificationsSuppressed)},
		{"messages pushed", counter(a.Delivery.MessagesPushed)},
		{"push failures", counter(a.Delivery.PushFailures)},
		{"handler failures", counter(a.Delivery.HandlerFailures)},
		{"relay forwarded", counter(a.Delivery.RelayForwarded)},
		{"relay received", counter(a.Delivery.RelayReceived)},
	})
	table.Render()
}

func header(title string, colours bool) string {
	h := fmt.Sprintf("  ====== %s ======", title)
	if colours {
		return color.New(color.BgBlack, color.FgGreen).Render(h)
	}
	return h
}

func paint(c color.Color, s string, colours bool) string {
	if !colours {
		return s
	}
	return c.Render(s)
}
