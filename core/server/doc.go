// Package server wraps net/http's Server with lifecycle management: blocking
// Start, graceful Stop with a configurable timeout, and an errgroup-friendly
// Run wrapper.
//
// Basic usage:
//
//	srv := server.New(":8080",
//		server.WithLogger(slog.Default()),
//		server.WithShutdownTimeout(10*time.Second),
//	)
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	go func() {
//		<-ctx.Done()
//		_ = srv.Stop()
//	}()
//
//	if err := srv.Start(ctx, mux); err != nil && !errors.Is(err, context.Canceled) {
//		log.Fatal(err)
//	}
//
// Environment-driven configuration:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg)
//
// With errgroup:
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, mux))
package server
