// Package buffer provides the sample ring used to hand audio between a
// device callback thread and the processing loop without locks.
package buffer
