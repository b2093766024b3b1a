// Package config defines the project settings used by every hellobuild
// action and provides helpers to load, validate and save them in YAML
// format.
//
// The Config type covers the whole configuration surface: compiler and
// flags, directory layout, install prefix and staging root, optional
// developer tools and release packaging options. A missing config file is
// not an error; conventional defaults apply.
package config
