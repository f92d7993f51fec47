package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"google.golang.org/grpc"

	"filmorate/internal/clients"
)

// runCheck опрашивает запущенный сервер через gRPC каталог и печатает ответ в out.
func runCheck(o options, out io.Writer, logger *slog.Logger, dialOpts ...grpc.DialOption) error {
	client, err := clients.NewCatalogClient(o.checkAddr, logger, dialOpts...)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := context.Background()
	switch o.checkKind {
	case "health":
		serving, err := client.Health(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, serving.String())
		return err
	case "user":
		exists, err := client.UserExists(ctx, o.checkID)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "user %d exists: %t\n", o.checkID, exists)
		return err
	default:
		exists, err := client.FilmExists(ctx, o.checkID)
		if err != nil {
			return err
		}
		if !exists {
			_, err = fmt.Fprintf(out, "film %d exists: false\n", o.checkID)
			return err
		}
		film, err := client.GetFilm(ctx, o.checkID)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(film)
	}
}
