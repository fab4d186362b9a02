package sqlinline

const QInsertDonation = `--sql 4f2c91ae-7d03-4b8e-a1c5-62e9d04f7b18
insert into donations(id, beneficiary_id, beneficiary_amount_int, platform_amount_int, currency, source_intent_id, created_at)
values ($1::uuid, $2::text, $3::bigint, $4::bigint, $5::text, $6::text, now());
`

const QListDonations = `--sql 8a51307b-2c6f-49d1-b7e4-0d93c8a2f654
select id, beneficiary_id, beneficiary_amount_int, platform_amount_int, currency, source_intent_id, created_at
from donations
where ($1::text is null or beneficiary_id = $1::text)
order by created_at desc
limit $2::int;
`

const QDonationTotals = `--sql c7e8b2d4-1a95-4c30-8f6b-3e52a90d17cb
select count(*), coalesce(sum(beneficiary_amount_int), 0), coalesce(sum(platform_amount_int), 0)
from donations;
`
