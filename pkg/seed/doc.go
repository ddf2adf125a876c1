// Package seed brings a content store to its baseline state at startup.
//
// A Provisioner runs these steps in order, each of them a no-op when the
// store already holds what it would create:
//
//  1. Grant the public role every read action it is missing.
//  2. Seed puppies, studs, testimonials and hero slides into empty
//     collections.
//  3. Create the site settings singleton.
//  4. Create the about page featuring the first puppies, or link the
//     puppies to an existing about page that has none.
//
// The default records are compiled in from data/*.yaml and can be
// replaced file by file with LoadDatasetDir.
//
//	ds, err := seed.DefaultDataset()
//	result, err := seed.New(store, ds).WithLogger(logger).Provision(ctx)
package seed
