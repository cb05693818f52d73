// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package discovery

import (
	"context"
	"encoding/binary"
	"net"
	"sync"
	"time"

	"github.com/go-rtps/participant/rtpstypes"
)

const (
	beaconPrefix  = "SPD"
	beaconVersion = byte(1)
	// beaconSize is prefix(3) + version(1) + GuidPrefixLen(12) +
	// unicast port(4) = 20 bytes. Metatraffic locators themselves are
	// not carried on the beacon; peers discover them out of band or
	// default to the well-known metatraffic multicast locator, which
	// keeps the wire beacon fixed-size like zyre/beacon.go's.
	beaconSize = 3 + 1 + rtpstypes.GuidPrefixLen + 4
)

// announcement is one parsed SPDP beacon from a remote participant.
type announcement struct {
	prefix GuidPrefix
	port   uint32
	addr   net.IP
}

// spdpBeacon periodically broadcasts this participant's GuidPrefix
// and default unicast port on a UDP multicast locator, and listens
// for the same from other participants — the SPDP analogue of
// zyre/beacon.go's ZRE UDP beacon, with a GuidPrefix in place of a
// node UUID and no mailbox-port silent mode (a participant with
// discovery enabled always announces).
type spdpBeacon struct {
	prefix   GuidPrefix
	port     uint32
	interval time.Duration

	conn *net.UDPConn
	addr *net.UDPAddr

	announcements chan *announcement

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

func newSPDPBeacon(prefix GuidPrefix, port uint32, interval time.Duration) *spdpBeacon {
	ctx, cancel := context.WithCancel(context.Background())
	return &spdpBeacon{
		prefix:        prefix,
		port:          port,
		interval:      interval,
		announcements: make(chan *announcement, 64),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// start binds the beacon's UDP multicast locator and launches the
// broadcast and listen goroutines. Grounded on Beacon.Start/setupUDP.
func (b *spdpBeacon) start(loc Locator) error {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: int(loc.Port)})
	if err != nil {
		return err
	}
	b.conn = conn
	b.addr = loc.UDPAddr()
	b.running = true

	b.wg.Add(1)
	go b.broadcastLoop()
	b.wg.Add(1)
	go b.listenLoop()
	return nil
}

func (b *spdpBeacon) stop() {
	if !b.running {
		return
	}
	b.cancel()
	b.wg.Wait()
	b.running = false
	if b.conn != nil {
		b.conn.Close()
	}
	close(b.announcements)
}

func (b *spdpBeacon) announcementsCh() <-chan *announcement { return b.announcements }

func (b *spdpBeacon) broadcastLoop() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			b.send()
		case <-b.ctx.Done():
			return
		}
	}
}

func (b *spdpBeacon) listenLoop() {
	defer b.wg.Done()
	buf := make([]byte, beaconSize)
	for {
		select {
		case <-b.ctx.Done():
			return
		default:
			b.conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
			n, addr, err := b.conn.ReadFromUDP(buf)
			if err != nil {
				continue
			}
			if a := b.parse(buf[:n], addr.IP); a != nil {
				select {
				case b.announcements <- a:
				default:
				}
			}
		}
	}
}

func (b *spdpBeacon) send() {
	buf := make([]byte, beaconSize)
	copy(buf[0:3], beaconPrefix)
	buf[3] = beaconVersion
	copy(buf[4:4+rtpstypes.GuidPrefixLen], b.prefix[:])
	binary.LittleEndian.PutUint32(buf[4+rtpstypes.GuidPrefixLen:], b.port)
	b.conn.WriteToUDP(buf, b.addr)
}

func (b *spdpBeacon) parse(data []byte, sourceIP net.IP) *announcement {
	if len(data) != beaconSize || string(data[0:3]) != beaconPrefix || data[3] != beaconVersion {
		return nil
	}
	var prefix GuidPrefix
	copy(prefix[:], data[4:4+rtpstypes.GuidPrefixLen])
	if prefix == b.prefix {
		return nil
	}
	port := binary.LittleEndian.Uint32(data[4+rtpstypes.GuidPrefixLen:])
	return &announcement{prefix: prefix, port: port, addr: sourceIP}
}
