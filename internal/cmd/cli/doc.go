// Package cli contains the Cobra commands of the flake binary.
//
// Commands:
//
//	flake next --worker 5 --datacenter 3 -n 10 --format base58
//	flake decode 7291019284365312000 --epoch 2024-01-01T00:00:00Z
//	flake layout
//
// Identity and epoch come from --config, FLAKE_* environment variables
// (optionally from a .env file) and finally flags, in that order.
package cli
