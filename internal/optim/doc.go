// Package optim searches body parameters for the run that minimizes a metric.
package optim
