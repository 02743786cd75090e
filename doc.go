/*
Package vitalcore is the top-level package of the vitalcore module. It
holds no code of its own; see package core for the control surface
(New, Start, SyncTime, Pause, Resume) that assembles every other
package into a running biosignal acquisition pipeline, or cmd/vitalmonitor
for a runnable command-line front end.
*/
package vitalcore
