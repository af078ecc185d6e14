// Package model provides the data structures shared between the pipeline
// engine and its observers.
// It defines the information describing a step in the tree, the outcome of a
// step execution, and the hook interface an observer implements to follow a
// run pass by pass.
package model
