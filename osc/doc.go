// Copyright 2013 - 2015 Sebastian Ruml <sebastian.ruml@gmail.com>
// Copyright 2021 - 2022 Mendel Greenberg <mendel@chabad360.me>

//Package osc is a small Open Sound Control codec and UDP transport.
//
//It implements the part of OSC 1.0 needed to exchange control values (avatar
//parameters, lighting levels, labels) between processes on one network.
//
//Features
//
//- Supports OSC messages with the following TypeTags:
//
//	'i' (Int32)
//	'f' (Float32)
//	's' (String)
//	'b' (Blob)
//
//- Several messages may share one datagram (see Batch). The receiver simply
//decodes until the datagram is exhausted.
//
//- No bundles, time tags, address pattern matching or dispatching.
//
//Packets
//
//Every field of a message is padded with zero bytes to a multiple of four:
//
//	Path     '/' ... NUL, padded
//	TypeTags ',' one tag per argument ... NUL, padded
//	Int32    4 bytes, big-endian
//	Float32  4 bytes, in Codec.FloatOrder (big-endian by default)
//	String   ... NUL, padded; the empty string is four zero bytes
//	Blob     4 byte big-endian length, bytes, padded
//
//Decoded messages point into the receive buffer. They are only valid inside
//the Handler they are passed to; use Message.Clone to keep one.
//
//Usage
//
//Sending:
//  e, err := osc.Dial("127.0.0.1", 9000)
//  if err != nil {
//      return err
//  }
//  defer e.Close()
//  err = e.SendMessage("/avatar/parameters/Speed", ",f", osc.Float32(0.5))
//
//Receiving:
//  e, err := osc.Listen(9001)
//  if err != nil {
//      return err
//  }
//  defer e.Close()
//  n, err := e.Poll(10*time.Millisecond, func(m *osc.Message) {
//      fmt.Println(m)
//  })
package osc
