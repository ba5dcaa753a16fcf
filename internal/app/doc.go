// Package app wires the rate server: it loads one rate file, builds the
// rate and health services, mounts the HTTP handlers behind the middleware
// chain and runs the server until interrupted.
//
//	application, err := app.NewApplication(ctx, cfg, logger, app.Options{
//		RatesFile: "eur.csv",
//		Rates:     dataprocessing.RateSpec{Low: 1, High: 2},
//	})
//	if err != nil {
//		return err
//	}
//	return application.Run(ctx)
package app
