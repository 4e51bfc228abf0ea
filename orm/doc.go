/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket contains only one type of object. It has a
primary index (which may be composite), and may possess
secondary indexes. It may possess one or more secondary indexes (1:1 or 1:N).

Models are plain Go structures. They are serialized using the amino codec,
prefixed with a schema version byte, so that the raw value stored is never
empty and can be migrated later.
*/
package orm
