package sqlinline

// QSelectIntegrationToken reads the stored API key of a model provider.
const QSelectIntegrationToken = `--sql 3f0c2b7e-5d41-4c8a-9e26-b1a4d07c58e3
select token
from integration_tokens
where provider = lower($1::text)
  and btrim(token) <> ''
limit 1;
`

// QUpsertIntegrationToken stores a provider API key; properties from earlier
// writes are kept unless overwritten.
const QUpsertIntegrationToken = `--sql c81e5a94-27b6-4f0d-8d3a-6a9f2e41b7d5
insert into integration_tokens (provider, token, properties)
values (lower($1::text), btrim($2::text), coalesce($3::jsonb, '{}'::jsonb))
on conflict (provider) do update set
    token = excluded.token,
    properties = integration_tokens.properties || excluded.properties,
    updated_at = now();
`
