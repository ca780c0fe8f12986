/*
Package capture bridges a blocking packet source (a libpcap handle, a capture
file, anything with ReadPacketData) to goroutines that want a cancellable
"next packet" call.

A polling loop owns the source and runs on its own locked OS thread. It copies
every packet into an owned model.Packet and hands it over through a FIFO
queue. Read timeouts are not errors: they only give the loop a chance to see a
stop request. The loop ends on a stop request, at the end of the source, on the
first non-timeout error or when the consumer calls Close. In every case it
closes the source, closes the queue and marks its StopHandle stopped.

example:

	handle, err := capture.OpenLive("eth0", capture.DefaultPcapOptions())
	if err != nil {
		// handle error
	}
	c, stop := capture.New(handle)
	defer stop.Stop()

	for {
		pkt, err := c.NextPacket(ctx)
		if err == io.EOF {
			break // c.Err() tells whether the source failed
		}
		if err != nil {
			// ctx is done
		}
		// use pkt
	}
*/
package capture // import "github.com/vearne/asyncpcap/capture"
