package sqlinline

const QInsertProfile = `--sql 5b06d8e1-934a-4f72-bc18-7a40f5c2e9d3
insert into profiles(id, category, name, picture, biodata, purpose, created_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::text, now())
returning id, created_at;
`

const QListProfiles = `--sql 2d94c6f0-58b1-4ae7-9c32-e1b7d60a84f5
select id, category, name, picture, biodata, purpose, created_at
from profiles
where ($1::text = '' or category = $1::text)
order by created_at desc;
`

const QSelectProfile = `--sql 9e37a1b8-0c64-4d25-af91-58d2c3e70b46
select id, category, name, picture, biodata, purpose, created_at
from profiles
where id = $1::uuid;
`
