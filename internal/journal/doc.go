/*
Journal records order events in an append-only log.

# Module
  - writer: buffered, segment rotation, one goroutine owns the files
  - reader: sequential record decoding with checksum verification
  - playback: replays every segment of a directory in name order

# Record
  - 44 byte little endian header: magic, version, header size, kind, flags,
    payload length, sequence, ts_event, ts_init, reserved
  - JSON payload of the event body
  - CRC32-Castagnoli over header and payload
*/
package journal
