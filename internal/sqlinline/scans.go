package sqlinline

const QInsertScanJob = `--sql aae8185b-18e1-4bf8-8115-60a2192c7dc5
insert into scan_jobs(id, status, documents, client_country, created_at, updated_at)
values ($1::uuid, 'QUEUED', coalesce($2::jsonb, '[]'::jsonb), nullif($3::text, ''), now(), now())
returning created_at, updated_at;
`

const QSelectScanJob = `--sql e52325fc-4d4f-4d1c-a115-f88710a2465b
select id::text, status, documents, raw_text, result, model, error_message, client_country, created_at, updated_at, finished_at
from scan_jobs
where id = $1::uuid;
`

const QClaimScanJob = `--sql 4246d9ac-641a-43ae-8533-b606c5c2cb59
update scan_jobs
set status = 'RUNNING', updated_at = now()
where id = (
    select id
    from scan_jobs
    where status = 'QUEUED'
    order by created_at
    for update skip locked
    limit 1
)
returning id::text, status, documents, raw_text, result, model, error_message, client_country, created_at, updated_at, finished_at;
`

const QMarkScanSucceeded = `--sql 996d3e17-308d-497c-9208-8ded1a532301
update scan_jobs
set status = 'SUCCEEDED',
    raw_text = $2::text,
    model = nullif($3::text, ''),
    result = $4::jsonb,
    error_message = null,
    finished_at = now(),
    updated_at = now()
where id = $1::uuid;
`

const QMarkScanFailed = `--sql 64d76026-cab6-4bcf-a6f3-c2fa23ed335c
update scan_jobs
set status = 'FAILED',
    error_message = $2::text,
    finished_at = now(),
    updated_at = now()
where id = $1::uuid;
`

const QRequeueScanJob = `--sql 0b7d93e2-4a6f-4e15-b8c3-92f1d5a07c64
update scan_jobs
set status = 'QUEUED', updated_at = now()
where id = $1::uuid
  and status = 'RUNNING';
`

// All lists every inline query so tooling and tests can audit the markers.
var All = map[string]string{
	"QInsertScanJob":          QInsertScanJob,
	"QSelectScanJob":          QSelectScanJob,
	"QClaimScanJob":           QClaimScanJob,
	"QMarkScanSucceeded":      QMarkScanSucceeded,
	"QMarkScanFailed":         QMarkScanFailed,
	"QRequeueScanJob":         QRequeueScanJob,
	"QSelectIntegrationToken": QSelectIntegrationToken,
	"QUpsertIntegrationToken": QUpsertIntegrationToken,
}
