// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

// create a table for staking events
const eventTableSchema = `
create table if not exists event (
	seq integer primary key autoincrement,
	eventTime integer not null,
	name text not null,
	topic blob(32) not null,
	participant blob(20),
	amount blob(32),
	aux blob(32)
);

CREATE INDEX if not exists eventTimeIndex on event(eventTime);
CREATE INDEX if not exists nameIndex on event(name);
CREATE INDEX if not exists participantIndex on event(participant);
`
