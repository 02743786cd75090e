/*
Package store holds the two pieces of shared state the event bus
mutates: the device store (one record per known peripheral) and the
sample store (one ring buffer per channel, at two window lengths). Both
stores are safe for concurrent readers under an RWMutex; by convention
only the event bus goroutine ever takes the write lock (see package bus).
*/
package store
