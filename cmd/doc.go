/*
Package cmd contains the command-line applications built on top of the
vitalcore module. Currently this is just vitalmonitor.
*/
package cmd
